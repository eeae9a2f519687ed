package commands

import "testing"

func TestInstallTarget(t *testing.T) {
	tests := map[string]struct {
		to      string
		want    string
		wantErr bool
	}{
		"latest":   {to: "latest", want: "tableflip.dev/dayplan/cmd/dayplan@latest"},
		"tag":      {to: "v0.3.1", want: "tableflip.dev/dayplan/cmd/dayplan@v0.3.1"},
		"no v":     {to: "0.3.1", wantErr: true},
		"empty":    {to: "", wantErr: true},
		"injected": {to: "v1@evil/mod", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := installTarget(tc.to)
			if (err != nil) != tc.wantErr {
				t.Fatalf("installTarget(%q) error = %v, wantErr %v", tc.to, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("installTarget(%q) = %q, want %q", tc.to, got, tc.want)
			}
		})
	}
}

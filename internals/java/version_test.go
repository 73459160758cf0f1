package java

import "testing"

func TestRequiredMajor(t *testing.T) {
	tests := []struct {
		mcVersion string
		want      int
	}{
		{"1.12.2", 8},
		{"1.16.5", 8},
		{"1.17", 16},
		{"1.17.1", 16},
		{"1.18", 17},
		{"1.19.4", 17},
		{"1.20.4", 17},
		{"1.20.5", 21},
		{"1.20.6", 21},
		{"1.21", 21},
		{"1.21.4", 21},
		// snapshots get the newest mapping
		{"23w31a", 21},
	}

	for _, tt := range tests {
		t.Run(tt.mcVersion, func(t *testing.T) {
			if got := RequiredMajor(tt.mcVersion); got != tt.want {
				t.Errorf("RequiredMajor(%q) = %d, want %d", tt.mcVersion, got, tt.want)
			}
		})
	}
}

func TestParseJavaVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    int
		wantErr bool
	}{
		{
			name:   "old scheme",
			output: `openjdk version "1.8.0_292"`,
			want:   8,
		},
		{
			name:   "new scheme",
			output: `openjdk version "17.0.1" 2021-10-19`,
			want:   17,
		},
		{
			name:   "oracle banner",
			output: "java version \"21\" 2023-09-19 LTS\nJava(TM) SE Runtime Environment",
			want:   21,
		},
		{
			name:    "garbage",
			output:  "command not found",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseJavaVersion(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJavaVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseJavaVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}

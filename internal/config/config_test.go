package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"BibstatPath", BibstatPath, "/test/repo/.bibstat"},
		{"ConfigPath", ConfigPath, "/test/repo/.bibstat/config.yml"},
		{"RecordsPath", RecordsPath, "/test/repo/.bibstat/records.jsonl"},
		{"CachePath", CachePath, "/test/repo/.bibstat/cache"},
		{"DBPath", DBPath, "/test/repo/.bibstat/cache/records.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestChartsPath(t *testing.T) {
	cfg := Default()
	if got := cfg.ChartsPath("/test/repo"); got != "/test/repo/charts" {
		t.Errorf("ChartsPath() = %q, want /test/repo/charts", got)
	}

	cfg.Charts.Dir = "/tmp/out"
	if got := cfg.ChartsPath("/test/repo"); got != "/tmp/out" {
		t.Errorf("ChartsPath() with absolute dir = %q, want /tmp/out", got)
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	// Not a repository initially
	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, BibstatDir), 0755); err != nil {
		t.Fatalf("Failed to create .bibstat: %v", err)
	}

	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .bibstat as a file, not directory
	if err := os.WriteFile(filepath.Join(tmpDir, BibstatDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .bibstat file: %v", err)
	}

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when .bibstat is a file")
	}
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	nestedDir := filepath.Join(repoDir, "data", "wos")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(repoDir, BibstatDir), 0755); err != nil {
		t.Fatalf("Failed to create .bibstat: %v", err)
	}

	found, err := FindRepository(nestedDir)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	if found != repoDir {
		t.Errorf("FindRepository() = %q, want %q", found, repoDir)
	}

	found, err = FindRepository(repoDir)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	if found != repoDir {
		t.Errorf("FindRepository() = %q, want %q", found, repoDir)
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	_, err := FindRepository(t.TempDir())
	if err == nil {
		t.Error("FindRepository() should return error when no repo found")
	}
}

func setupRepo(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, BibstatDir), 0755); err != nil {
		t.Fatalf("Failed to create .bibstat: %v", err)
	}
	return tmpDir
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := setupRepo(t)

	cfg := Default()
	cfg.CurrentYear = 2024
	cfg.ExcludeYears = []int{2025, 2026}
	cfg.Network.TopN = 40
	cfg.Network.DedupePairs = true
	cfg.Stream.Keywords = []string{"gip", "tirzepatide"}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := setupRepo(t)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := setupRepo(t)

	content := `
current_year: 2030
exclude_years: []
columns:
  keywords: "DE"
network:
  top_n: 10
`
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CurrentYear != 2030 {
		t.Errorf("CurrentYear = %d, want 2030", cfg.CurrentYear)
	}
	if len(cfg.ExcludeYears) != 0 {
		t.Errorf("ExcludeYears = %v, want empty", cfg.ExcludeYears)
	}
	if cfg.Columns.Keywords != "DE" {
		t.Errorf("Columns.Keywords = %q, want DE", cfg.Columns.Keywords)
	}
	if cfg.Columns.Year != "Year" {
		t.Errorf("Columns.Year = %q, want default Year", cfg.Columns.Year)
	}
	if cfg.Network.TopN != 10 {
		t.Errorf("Network.TopN = %d, want 10", cfg.Network.TopN)
	}
	if cfg.Journals.TopN != 10 || cfg.Keywords.SummaryTopN != 15 {
		t.Errorf("unset sections should keep defaults, got journals=%d summary=%d",
			cfg.Journals.TopN, cfg.Keywords.SummaryTopN)
	}
	if len(cfg.Stream.Keywords) != len(DefaultStreamKeywords) {
		t.Errorf("Stream.Keywords = %v, want defaults", cfg.Stream.Keywords)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := setupRepo(t)

	if err := os.WriteFile(ConfigPath(tmpDir), []byte("current_year: [not, a, year"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative top_n", "network:\n  top_n: -1\n"},
		{"zero current year", "current_year: 0\n"},
		{"empty year column", "columns:\n  year: \"\"\n"},
		{"zero chart width", "charts:\n  width_in: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := setupRepo(t)
			if err := os.WriteFile(ConfigPath(tmpDir), []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := Load(tmpDir); err == nil {
				t.Errorf("Load() should reject %s", tt.name)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()

	t.Setenv(CurrentYearEnv, "2027")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.CurrentYear != 2027 {
		t.Errorf("CurrentYear = %d, want 2027", cfg.CurrentYear)
	}

	t.Setenv(CurrentYearEnv, "next year")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric year")
	}
}

func TestIsExcludedYear(t *testing.T) {
	cfg := Default()
	if !cfg.IsExcludedYear(2026) {
		t.Error("2026 should be excluded by default")
	}
	if cfg.IsExcludedYear(2025) {
		t.Error("2025 should not be excluded by default")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	if got := ExpandPath("~/charts"); got != filepath.Join(home, "charts") {
		t.Errorf("ExpandPath(~/charts) = %q", got)
	}
	if got := ExpandPath("charts"); got != "charts" {
		t.Errorf("ExpandPath(charts) = %q, want unchanged", got)
	}
}

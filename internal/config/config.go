package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/azan-release/internal/domain/release"
)

// Config is the PipelineConfig: read once per invocation and passed explicitly to every stage.
type Config struct {
	// LibraryName is the crate's library name (lib<name>.a is what cargo emits).
	LibraryName string `yaml:"library_name"`
	// ModuleName is the Swift module and XCFramework name.
	ModuleName string `yaml:"module_name"`
	// CargoManifest is the native crate manifest whose [package] version is released.
	CargoManifest string `yaml:"cargo_manifest"`
	// CargoLock is committed together with the manifest on release.
	CargoLock string `yaml:"cargo_lock"`
	// TargetDir is cargo's build output directory.
	TargetDir string `yaml:"target_dir"`
	// FatSimulatorOutputDir receives the lipo-combined simulator library.
	FatSimulatorOutputDir string `yaml:"fat_simulator_output_dir"`
	// UseLocalArtifactSource points the Swift package at the local XCFramework during development.
	// A release always forces it back to false before committing.
	UseLocalArtifactSource bool `yaml:"use_local_artifact_source"`
	// GitRemote is the remote release commits and tags are pushed to.
	GitRemote string `yaml:"git_remote"`

	IOS     IOS     `yaml:"ios"`
	Android Android `yaml:"android"`
}

// IOS holds the platform A layout.
type IOS struct {
	DeviceTargets    []string `yaml:"device_targets"`
	SimulatorTargets []string `yaml:"simulator_targets"`
	// StagingDir holds generated bindings before they are relocated.
	StagingDir string `yaml:"staging_dir"`
	// HeadersDir is passed to xcodebuild next to every library slice.
	HeadersDir string `yaml:"headers_dir"`
	// SourcesDir is the Swift package source directory receiving generated Swift files.
	SourcesDir    string `yaml:"sources_dir"`
	FrameworkPath string `yaml:"framework_path"`
	ArchivePath   string `yaml:"archive_path"`
	// PackageManifest is the consuming Package.swift.
	PackageManifest string `yaml:"package_manifest"`
	// BindingLibraryTarget selects which target's shared library the binding generator reads.
	BindingLibraryTarget string `yaml:"binding_library_target"`

	Declarations Declarations `yaml:"declarations"`
}

// Declarations names the Package.swift constants the pipeline rewrites.
type Declarations struct {
	ReleaseTag  string `yaml:"release_tag"`
	Checksum    string `yaml:"checksum"`
	LocalSource string `yaml:"local_source"`
}

// Android holds the platform B layout.
type Android struct {
	Targets []string `yaml:"targets"`
	// ProjectDir is the Gradle project root containing the wrapper.
	ProjectDir string `yaml:"project_dir"`
	// Module is the Gradle library module producing the AAR.
	Module string `yaml:"module"`
	// BuildDirs are removed by the platform cleanup, relative to the working directory.
	BuildDirs []string `yaml:"build_dirs"`
	// GradleProperties, when set, gets its VERSION_NAME rewritten by update-versions.
	GradleProperties string `yaml:"gradle_properties"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "azan-release.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// identifierPattern restricts names that end up in file names and Swift identifiers.
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Default returns the layout of the azan mobile bindings repository.
func Default() *Config {
	matrix := release.DefaultMatrix()

	return &Config{
		LibraryName:           "azan_rslib",
		ModuleName:            "AzanFFI",
		CargoManifest:         "Cargo.toml",
		CargoLock:             "Cargo.lock",
		TargetDir:             "target",
		FatSimulatorOutputDir: filepath.Join("target", "ios-sim-universal"),
		GitRemote:             "origin",
		IOS: IOS{
			DeviceTargets:        matrix.IOSDevice,
			SimulatorTargets:     matrix.IOSSimulator,
			StagingDir:           filepath.Join("ios", "build"),
			HeadersDir:           filepath.Join("ios", "build", "headers"),
			SourcesDir:           filepath.Join("Sources", "Azan"),
			FrameworkPath:        filepath.Join("ios", "AzanFFI.xcframework"),
			ArchivePath:          filepath.Join("ios", "AzanFFI.xcframework.zip"),
			PackageManifest:      "Package.swift",
			BindingLibraryTarget: matrix.IOSDevice[0],
			Declarations: Declarations{
				ReleaseTag:  "releaseTag",
				Checksum:    "releaseChecksum",
				LocalSource: "useLocalFramework",
			},
		},
		Android: Android{
			Targets:    matrix.Android,
			ProjectDir: "android",
			Module:     "lib",
			BuildDirs: []string{
				filepath.Join("android", "build"),
				filepath.Join("android", "lib", "build"),
				filepath.Join("android", ".gradle"),
			},
			GradleProperties: filepath.Join("android", "gradle.properties"),
		},
	}
}

// Load reads configuration from path on top of Default and validates it.
// A missing file at the default location is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	explicit := path != "" && path != DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	// An explicitly blank binding target falls back to the device slice.
	if cfg.IOS.BindingLibraryTarget == "" && len(cfg.IOS.DeviceTargets) > 0 {
		cfg.IOS.BindingLibraryTarget = cfg.IOS.DeviceTargets[0]
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields. Failures wrap release.ErrConfiguration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if !identifierPattern.MatchString(cfg.LibraryName) {
		return fmt.Errorf("%w: invalid library name %q", release.ErrConfiguration, cfg.LibraryName)
	}

	if !identifierPattern.MatchString(cfg.ModuleName) {
		return fmt.Errorf("%w: invalid module name %q", release.ErrConfiguration, cfg.ModuleName)
	}

	required := map[string]string{
		"cargo_manifest":           cfg.CargoManifest,
		"target_dir":               cfg.TargetDir,
		"fat_simulator_output_dir": cfg.FatSimulatorOutputDir,
		"git_remote":               cfg.GitRemote,
		"ios.framework_path":       cfg.IOS.FrameworkPath,
		"ios.archive_path":         cfg.IOS.ArchivePath,
		"ios.package_manifest":     cfg.IOS.PackageManifest,
		"ios.headers_dir":          cfg.IOS.HeadersDir,
		"ios.sources_dir":          cfg.IOS.SourcesDir,
		"android.project_dir":      cfg.Android.ProjectDir,
		"android.module":           cfg.Android.Module,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s must be set", release.ErrConfiguration, name)
		}
	}

	// The framework carries exactly one device slice.
	if len(cfg.IOS.DeviceTargets) != 1 {
		return fmt.Errorf("%w: exactly one iOS device target is required, got %d",
			release.ErrConfiguration, len(cfg.IOS.DeviceTargets))
	}

	// A single simulator triple is packaged as is; lipo needs two or more.
	if len(cfg.IOS.SimulatorTargets) == 0 {
		return fmt.Errorf("%w: at least one iOS simulator target is required", release.ErrConfiguration)
	}

	if !slices.Contains(cfg.IOS.DeviceTargets, cfg.IOS.BindingLibraryTarget) &&
		!slices.Contains(cfg.IOS.SimulatorTargets, cfg.IOS.BindingLibraryTarget) {
		return fmt.Errorf("%w: binding library target %q is not an iOS target",
			release.ErrConfiguration, cfg.IOS.BindingLibraryTarget)
	}

	d := cfg.IOS.Declarations
	for _, name := range []string{d.ReleaseTag, d.Checksum, d.LocalSource} {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%w: invalid manifest declaration %q", release.ErrConfiguration, name)
		}
	}

	return nil
}

// Matrix returns the static target matrix configured for both platforms.
func (c *Config) Matrix() release.Matrix {
	return release.Matrix{
		IOSDevice:    c.IOS.DeviceTargets,
		IOSSimulator: c.IOS.SimulatorTargets,
		Android:      c.Android.Targets,
	}
}

// StaticLibraryName is the archive cargo emits for the crate.
func (c *Config) StaticLibraryName() string {
	return "lib" + c.LibraryName + ".a"
}

// SharedLibraryName is the dylib the binding generator reads interface metadata from.
func (c *Config) SharedLibraryName() string {
	return "lib" + c.LibraryName + ".dylib"
}

// TargetOutputDir is where cargo puts artifacts for one triple and mode.
func (c *Config) TargetOutputDir(target release.BuildTarget) string {
	return filepath.Join(c.TargetDir, target.Triple, string(target.Mode))
}

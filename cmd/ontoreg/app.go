// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ontoreg/ontoreg/internal/config"
	"github.com/ontoreg/ontoreg/internal/issue"
	"github.com/ontoreg/ontoreg/internal/logging"
	"github.com/ontoreg/ontoreg/pkg/dictionary"
	"github.com/ontoreg/ontoreg/pkg/manifest"
	"github.com/ontoreg/ontoreg/pkg/ontology"
	"github.com/ontoreg/ontoreg/pkg/registry"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reaches configuration and registries through it.
	App struct {
		Config     ConfigProvider
		Registries RegistryLoader
		stdout     io.Writer
		stderr     io.Writer

		// Populated by the root command's PersistentPreRunE.
		flags  rootFlagValues
		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Registries RegistryLoader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RegistryLoader builds a registry from a manifest file.
	RegistryLoader interface {
		Load(ctx context.Context, path string, opts ...registry.Option) (*registry.Registry, error)
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		manifestPath string
		configPath   string
		verbose      bool
		jsonOutput   bool
	}

	fileRegistryLoader struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registries == nil {
		deps.Registries = fileRegistryLoader{}
	}

	return &App{
		Config:     deps.Config,
		Registries: deps.Registries,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		cfg:        config.DefaultConfig(),
		logger:     slog.New(slog.DiscardHandler),
	}
}

func (fileRegistryLoader) Load(ctx context.Context, path string, opts ...registry.Option) (*registry.Registry, error) {
	return registry.FromFile(ctx, path, opts...)
}

// loadConfig resolves configuration for this invocation and installs the
// process logger. --verbose wins over ui.verbose.
func (a *App) loadConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, a.configOptions())
	if err != nil {
		return err
	}
	a.cfg = cfg
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}

	a.logger = logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.flags.verbose,
		Output:  a.stderr,
	})
	applyColorScheme(cfg.UI.ColorScheme)
	return nil
}

// configOptions maps --config onto config load options.
func (a *App) configOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}

// manifestPath picks the manifest from --manifest, then the config file,
// then the working directory.
func (a *App) manifestPath() (string, error) {
	path := a.flags.manifestPath
	if path == "" {
		path = string(a.cfg.Manifest)
	}
	if path == "" {
		path = "."
	}

	found, err := manifest.Find(path)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("find ontology manifest").
			WithResource(path).
			WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Pass --manifest <file> or run inside a directory holding " + manifest.DefaultFileNames[0]).
			WithSuggestion("Set 'manifest' in the config file or " + config.EnvPrefix + "_MANIFEST").
			Wrap(err).
			BuildError()
	}
	return found, nil
}

// registryOptions maps configuration onto registry construction options.
func (a *App) registryOptions() []registry.Option {
	return []registry.Option{
		registry.WithLoadPolicy(registry.LoadPolicy(a.cfg.LoadPolicy)),
		registry.WithLogger(a.logger),
	}
}

// loadRegistry resolves the manifest and builds a registry from it.
func (a *App) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	path, err := a.manifestPath()
	if err != nil {
		return nil, err
	}
	reg, err := a.Registries.Load(ctx, path, a.registryOptions()...)
	if err != nil {
		return nil, classifyLoadError(err, path)
	}
	return reg, nil
}

// vocabulary loads the registry and returns the named vocabulary.
func (a *App) vocabulary(ctx context.Context, id string) (*ontology.Access, error) {
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return accessVocabulary(reg, id)
}

// classifyLoadError attaches a catalog page and suggestions to registry
// construction failures.
func classifyLoadError(err error, path string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var (
		parseErr    *manifest.ParseError
		invalidErr  *manifest.InvalidManifestError
		loadErr     *dictionary.LoadError
		policyErr   *registry.InvalidLoadPolicyError
		errContext  = issue.NewErrorContext().Wrap(err)
		unsupported = errors.Is(err, manifest.ErrUnsupportedFormat)
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &invalidErr), unsupported:
		errContext.
			WithOperation("load ontology manifest").
			WithResource(path).
			WithIssue(issue.ManifestParseErrorId).
			WithSuggestion("Check the vocabularies list against the manifest schema")
	case errors.As(err, &loadErr):
		errContext.
			WithOperation("load vocabulary").
			WithResource(loadErr.Vocabulary).
			WithIssue(issue.DictionaryLoadFailedId).
			WithSuggestion(fmt.Sprintf("Check the %s resource %s", loadErr.Kind, loadErr.Resource)).
			WithSuggestion("Use load_policy: \"skip\" to keep serving the other vocabularies")
	case errors.As(err, &policyErr):
		errContext.
			WithOperation("build registry").
			WithResource(string(policyErr.Value)).
			WithIssue(issue.ConfigLoadFailedId)
	default:
		errContext.WithOperation("build registry").WithResource(path)
	}
	return errContext.BuildError()
}

// accessVocabulary looks up id and explains a miss.
func accessVocabulary(reg *registry.Registry, id string) (*ontology.Access, error) {
	access, err := reg.Access(id)
	if err == nil {
		return access, nil
	}

	errContext := issue.NewErrorContext().
		WithOperation("open vocabulary").
		WithResource(id).
		WithIssue(issue.VocabularyNotFoundId).
		Wrap(err)

	var notFound *registry.NotFoundError
	if errors.As(err, &notFound) {
		if notFound.LoadErr != nil {
			errContext.WithSuggestion("The vocabulary is declared but failed to load; run 'ontoreg vocab list' for details")
		} else if len(notFound.Known) > 0 {
			errContext.WithSuggestion("Loaded vocabularies: " + strings.Join(notFound.Known, ", "))
		}
	}
	return nil, errContext.BuildError()
}

// lookupTerm resolves an accession within a vocabulary.
func lookupTerm(access *ontology.Access, accession string) (ontology.Term, error) {
	term, ok := access.TermForAccession(accession)
	if ok {
		return term, nil
	}
	return ontology.Term{}, issue.NewErrorContext().
		WithOperation("look up term").
		WithResource(accession).
		WithIssue(issue.TermNotFoundId).
		WithSuggestion(fmt.Sprintf("Accessions are case-sensitive; %s holds %d terms", access.Vocabulary(), access.Len())).
		Wrap(fmt.Errorf("%w: %s", errTermNotFound, accession)).
		BuildError()
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/objconv/internal/cli/config"
	"github.com/conduit-lang/objconv/internal/cli/ui"
	"github.com/conduit-lang/objconv/internal/converter"
	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/schema"
	"github.com/conduit-lang/objconv/internal/serializer"
)

// session is the state shared by the conversion commands
type session struct {
	config     *config.Config
	logger     *zap.Logger
	registry   *meta.Registry
	serializer *serializer.Serializer
}

// newSession loads the configuration and the type schema
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := meta.NewRegistry()
	loaded, err := schema.Load(cfg.Schema.Path, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	logger.Debug("loaded schema",
		zap.String("path", cfg.Schema.Path),
		zap.Int("types", len(loaded)),
	)

	convCfg, err := cfg.ConverterConfig()
	if err != nil {
		return nil, err
	}
	ser, err := serializer.NewWithDefaults(registry, convCfg, logger)
	if err != nil {
		return nil, err
	}

	return &session{
		config:     cfg,
		logger:     logger,
		registry:   registry,
		serializer: ser,
	}, nil
}

// resolveType finds a type by name, printing close matches when it
// does not exist.
func (s *session) resolveType(cmd *cobra.Command, name string) (meta.TypeID, error) {
	if info, ok := s.registry.LookupByName(name); ok {
		return info.ID, nil
	}

	var names []string
	for _, info := range s.registry.Types() {
		names = append(names, info.Name)
	}
	sort.Strings(names)

	fmt.Fprint(cmd.ErrOrStderr(), ui.TypeNotFoundError(name, ui.FindSimilar(name, names), noColor))
	return meta.InvalidType, reported(fmt.Errorf("%w: %s", meta.ErrTypeNotFound, name))
}

// conversionFailed prints a conversion error with its property path
func conversionFailed(cmd *cobra.Command, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), ui.ConversionError(err, converter.PropertyPath(err), noColor))
	return reported(err)
}

// readInput reads the document named by args, or stdin for none or "-".
// Comments and trailing commas are accepted.
func readInput(cmd *cobra.Command, args []string) (jsonvalue.Value, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("failed to read input: %w", err)
	}

	j, err := jsonvalue.ParseJSONC(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("failed to parse input: %w", err)
	}
	return j, nil
}

// reportedError marks an error whose details were already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

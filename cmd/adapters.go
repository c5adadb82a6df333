package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eykd/dictid/idgen"
	"github.com/eykd/dictid/internal/config"
	"github.com/eykd/dictid/internal/fs"
	"github.com/eykd/dictid/internal/lock"
)

// --- fileResolver ---

// fileResolver loads the config file and applies flag overrides.
type fileResolver struct {
	getwd func() (string, error)
}

// resolve returns the effective settings and the file they came from, if any.
func (r *fileResolver) resolve(o Overrides) (*config.File, string, error) {
	path := GetConfigPath()
	if path == "" {
		cwd, err := r.getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting working directory: %w", err)
		}
		path, err = config.Find(cwd)
		if err != nil {
			return nil, "", err
		}
	}

	f := &config.File{}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", &idgen.ConfigError{Err: err}
		}
		f = loaded
	}
	applyOverrides(f, o)
	return f, path, nil
}

func applyOverrides(f *config.File, o Overrides) {
	if o.Alphabet != nil || o.Preset != nil {
		f.Alphabet = nil
		f.Preset = ""
	}
	if o.Alphabet != nil {
		f.Alphabet = *o.Alphabet
	}
	if o.Preset != nil {
		f.Preset = *o.Preset
	}
	if o.Pool != nil {
		n := *o.Pool
		f.PoolCapacity = &n
	}
	if o.Secure != nil {
		f.Secure = *o.Secure
	}
	if o.Uniform != nil {
		f.Mapping = "mask"
		if *o.Uniform {
			f.Mapping = "uniform"
		}
	}
	if o.Strict != nil {
		f.Strict = *o.Strict
	}
}

// firstPositive returns the first value above zero, or fallback.
func firstPositive(fallback int, values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return fallback
}

// --- genAdapter ---

type genAdapter struct {
	resolver *fileResolver
}

func (a *genAdapter) Generate(ctx context.Context, req GenRequest) (*GenResult, error) {
	log := loggerFrom(ctx)

	f, path, err := a.resolver.resolve(req.Overrides)
	if err != nil {
		return nil, err
	}
	cfg, err := f.Generator()
	if err != nil {
		return nil, err
	}
	// Constructing up front surfaces configuration errors before any
	// worker starts.
	first, err := idgen.New(cfg)
	if err != nil {
		return nil, err
	}

	count := firstPositive(1, req.Count, f.Count)
	length := firstPositive(idgen.DefaultSize, req.Length, f.Length)
	workers := min(max(req.Workers, 1), count)

	log.Debug("generating",
		zap.String("config", path),
		zap.Int("count", count),
		zap.Int("length", length),
		zap.Int("workers", workers),
		zap.Int("pool_capacity", first.PoolCapacity()),
		zap.Bool("secure", first.Secure()),
		zap.String("mapping", first.Mapping().String()),
	)

	ids, err := generateParallel(ctx, cfg, first, count, length, workers)
	if err != nil {
		return nil, err
	}

	result := &GenResult{
		IDs:         ids,
		Length:      length,
		EntropyBits: first.EntropyBits(length),
		Biased:      first.Biased(),
	}

	if req.AppendPath != "" {
		timeout := req.LockTimeout
		if timeout <= 0 {
			timeout = DefaultLockTimeout
		}
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		appender := &fs.Appender{Path: req.AppendPath, Lock: lock.ForFile(req.AppendPath)}
		if err := appender.Append(lockCtx, ids); err != nil {
			return nil, &ContextError{Op: "appending", Path: req.AppendPath, Err: err}
		}
		log.Debug("appended", zap.String("path", req.AppendPath), zap.Int("count", len(ids)))
		result.AppendedTo = req.AppendPath
	}

	return result, nil
}

// generateParallel splits count across workers, each with its own generator.
// Output is ordered by worker, so it is deterministic in shape.
func generateParallel(ctx context.Context, cfg idgen.Config, first *idgen.Generator, count, length, workers int) ([]string, error) {
	shares := make([][]string, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		n := count / workers
		if w < count%workers {
			n++
		}
		g.Go(func() error {
			gen := first
			if w > 0 {
				var err error
				if gen, err = idgen.New(workerConfig(cfg)); err != nil {
					return err
				}
			}
			out := make([]string, 0, n)
			for i := 0; i < n; i++ {
				if i%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				id, err := gen.TryCreate(length)
				if err != nil {
					return err
				}
				out = append(out, id)
			}
			shares[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, count)
	for _, s := range shares {
		ids = append(ids, s...)
	}
	return ids, nil
}

// workerConfig gives each worker its own scratch buffer.
func workerConfig(cfg idgen.Config) idgen.Config {
	if cfg.ScratchBuffer != nil {
		cfg.ScratchBuffer = make([]byte, len(cfg.ScratchBuffer))
	}
	return cfg
}

// --- infoAdapter ---

type infoAdapter struct {
	resolver *fileResolver
}

func (a *infoAdapter) Info(ctx context.Context, req InfoRequest) (*InfoResult, error) {
	f, path, err := a.resolver.resolve(req.Overrides)
	if err != nil {
		return nil, err
	}
	cfg, err := f.Generator()
	if err != nil {
		return nil, err
	}
	gen, err := idgen.New(cfg)
	if err != nil {
		return nil, err
	}

	length := firstPositive(idgen.DefaultSize, req.Length, f.Length)
	symbols := gen.Alphabet()
	loggerFrom(ctx).Debug("resolved generator", zap.String("config", path), zap.Int("size", len(symbols)))

	return &InfoResult{
		Alphabet:      strings.Join(symbols, ""),
		Size:          len(symbols),
		Distinct:      gen.Distinct(),
		BitsPerSymbol: gen.EntropyBits(1),
		Length:        length,
		BitsPerID:     gen.EntropyBits(length),
		PoolCapacity:  gen.PoolCapacity(),
		Mapping:       gen.Mapping().String(),
		Secure:        gen.Secure(),
		Biased:        gen.Biased(),
		Normalized:    gen.Normalized(),
		ConfigFile:    path,
	}, nil
}

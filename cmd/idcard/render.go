package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/idcardapp/internal/card"
	"github.com/youruser/idcardapp/internal/holders"
	"github.com/youruser/idcardapp/internal/util"
)

type renderOptions struct {
	Template    string
	Fields      []string
	IDs         []string
	Departments []string
	Search      string
	Format      string
	OutDir      string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render cards to image files",
	Long: `Renders one card from --field pairs, or one card per holder found in the
data directory. Holders can be narrowed with --id, --department and --search.
Local file paths are accepted as image sources.`,
	Example: `  idcard render --field name="Jane Doe" --field id_number=00123 --field photo_url=photos/jane.jpg
  idcard render --department Engineering --format jpg --out cards/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		_, err := renderCards(ctx, renderOpts)
		return err
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOpts.Template, "template", "t", "", "Template name (default from config)")
	f.StringArrayVar(&renderOpts.Fields, "field", nil, "Template field as key=value (repeatable)")
	f.StringSliceVar(&renderOpts.IDs, "id", nil, "Only holders with these ids")
	f.StringSliceVar(&renderOpts.Departments, "department", nil, "Only holders in these departments")
	f.StringVar(&renderOpts.Search, "search", "", "Only holders matching all of these words")
	f.StringVarP(&renderOpts.Format, "format", "f", "", "Output format (png, jpg, gif, tiff, bmp)")
	f.StringVarP(&renderOpts.OutDir, "out", "o", "cards", "Output directory")
}

// renderCards writes one file per rendered card and returns their paths.
func renderCards(ctx context.Context, opts renderOptions) ([]string, error) {
	layout, ok := cfg.Template(opts.Template)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", opts.Template)
	}
	if opts.Format != "" {
		layout.Format = opts.Format
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	items, err := batchItems(opts)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no holders matched")
	}

	renderer, err := newRenderer(cfg, true)
	if err != nil {
		return nil, err
	}
	if err := util.EnsureDir(opts.OutDir); err != nil {
		return nil, err
	}

	var written []string
	used := make(map[string]bool, len(items))
	failed := 0
	for _, res := range renderer.RenderBatch(ctx, layout, items, cfg.Render.Concurrency) {
		if res.Err != nil {
			failed++
			logger.Error("render failed", zap.String("key", res.Key), zap.Error(res.Err))
			continue
		}
		for _, sk := range res.Result.Skipped {
			logger.Warn("layer skipped", zap.String("key", res.Key), zap.String("layer", sk.Layer), zap.Error(sk.Err))
		}
		path := filepath.Join(opts.OutDir, card.DownloadName(cfg.Render.DownloadPrefix, res.Key, res.Result.Format))
		if used[path] {
			return written, fmt.Errorf("card %q would overwrite %s", res.Key, path)
		}
		used[path] = true
		if err := util.WriteFile(path, res.Result.Image); err != nil {
			return written, err
		}
		written = append(written, path)
		logger.Info("card written",
			zap.String("path", path),
			zap.String("size", humanize.IBytes(uint64(len(res.Result.Image)))))
	}
	if failed > 0 {
		return written, fmt.Errorf("%d of %d cards failed", failed, len(items))
	}
	return written, nil
}

func batchItems(opts renderOptions) ([]card.BatchItem, error) {
	if len(opts.Fields) > 0 {
		fields, err := parseFields(opts.Fields)
		if err != nil {
			return nil, err
		}
		key := fields["id_number"]
		if key == "" {
			key = fields["id"]
		}
		return []card.BatchItem{{Key: key, Fields: fields}}, nil
	}

	hs, err := holders.LoadHoldersFromDataDir(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	hs = holders.Filter(hs, holders.FilterOptions{
		IDs:         opts.IDs,
		Departments: opts.Departments,
		FreeWords:   opts.Search,
	})
	items := make([]card.BatchItem, 0, len(hs))
	seen := make(map[string]bool, len(hs))
	for _, h := range hs {
		items = append(items, card.BatchItem{Key: holderKey(seen, h), Fields: h.Fields()})
	}
	return items, nil
}

// holderKey names a holder's output file after its ID number. Holders that
// share an ID number get their unique ID appended so no file is overwritten.
func holderKey(seen map[string]bool, h holders.Holder) string {
	key := h.IDNumber
	if key == "" || seen[key] {
		key = strings.Trim(h.IDNumber+"-"+h.ID, "-")
	}
	for n := 2; seen[key]; n++ {
		key = fmt.Sprintf("%s-%d", strings.Trim(h.IDNumber+"-"+h.ID, "-"), n)
	}
	seen[key] = true
	return key
}

// parseFields turns key=value pairs into a field map. Keys are lower-cased.
func parseFields(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

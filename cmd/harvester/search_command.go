package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"harvester/internal/bing"
	"harvester/internal/config"
	"harvester/internal/logging"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		maxImages  int
		market     string
		safeSearch string
		imageType  string
		filter     string
		minWidth   int
		minHeight  int
		filterSize bool
		extras     []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for images",
		Long: `Search for images matching the query and print the results.

Results are paginated transparently: the command keeps requesting pages
until the requested number of images is collected or the provider runs
out. Pass --filter-size to drop images smaller than the configured
minimum dimensions, or override them with --min-width/--min-height.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return fmt.Errorf("configuration unavailable")
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query is required")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			runCtx := logging.WithRequestID(cmd.Context(), uuid.NewString())
			logger = logging.WithContext(runCtx, logger)

			client, err := bing.New(bing.Config{
				APIKey:       cfg.Bing.APIKey,
				Endpoint:     cfg.Bing.Endpoint,
				RequestDelay: cfg.RequestDelay(),
				MaxRetries:   cfg.Harvest.MaxRetries,
				Logger:       logger,
			})
			if err != nil {
				return fmt.Errorf("create search client: %w", err)
			}

			extraParams, err := parseExtraParams(extras)
			if err != nil {
				return err
			}
			opts := bing.SearchOptions{
				Market:     market,
				SafeSearch: safeSearch,
				ImageType:  imageType,
				Filter:     filter,
				Extra:      extraParams,
			}
			if opts.Market == "" {
				opts.Market = cfg.Harvest.Market
			}
			if opts.SafeSearch == "" {
				opts.SafeSearch = cfg.Harvest.SafeSearch
			}

			limit := maxImages
			if limit <= 0 {
				limit = cfg.Harvest.MaxImages
			}

			result, err := client.SearchAll(runCtx, query, limit, opts)
			if err != nil {
				return err
			}

			minW, minH, filtering := resolveSizeFloor(cfg, minWidth, minHeight, filterSize)
			fetched := len(result.Images)
			if filtering {
				result = result.FilterBySize(minW, minH)
			}

			out := cmd.OutOrStdout()
			if jsonOutput || !stdoutIsTerminal() {
				return writeJSON(cmd, searchReport(result, fetched))
			}

			title := cases.Title(language.Und).String(query)
			fmt.Fprintf(out, "%s: %d of ~%d matches\n", title, len(result.Images), result.TotalEstimatedMatches)
			if filtering && fetched > len(result.Images) {
				fmt.Fprintf(out, "(%d below %dx%d dropped)\n", fetched-len(result.Images), minW, minH)
			}
			fmt.Fprintln(out, renderResultTable(result.Images))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxImages, "max", 0, "Maximum number of images to collect (default from config)")
	cmd.Flags().StringVar(&market, "market", "", "Market code, e.g. en-US")
	cmd.Flags().StringVar(&safeSearch, "safe-search", "", "Safe search level: Off, Moderate, or Strict")
	cmd.Flags().StringVar(&imageType, "image-type", "", "Image type filter, e.g. Photo or Clipart")
	cmd.Flags().StringVar(&filter, "filter", "", "Raw $filter expression passed to the provider")
	cmd.Flags().IntVar(&minWidth, "min-width", 0, "Drop images narrower than this many pixels")
	cmd.Flags().IntVar(&minHeight, "min-height", 0, "Drop images shorter than this many pixels")
	cmd.Flags().BoolVar(&filterSize, "filter-size", false, "Apply the configured minimum image dimensions")
	cmd.Flags().StringArrayVar(&extras, "param", nil, "Extra key=value query parameter (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

// resolveSizeFloor picks the minimum dimensions to enforce. Explicit flags win
// over the configured floor; --filter-size alone enables the configured one.
func resolveSizeFloor(cfg *config.Config, minWidth, minHeight int, filterSize bool) (int, int, bool) {
	if minWidth > 0 || minHeight > 0 {
		return minWidth, minHeight, true
	}
	if filterSize {
		return cfg.Harvest.MinWidth, cfg.Harvest.MinHeight, true
	}
	return 0, 0, false
}

type imageReport struct {
	ContentURL     string     `json:"content_url"`
	Name           string     `json:"name,omitempty"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	ContentSize    *int64     `json:"content_size,omitempty"`
	EncodingFormat string     `json:"encoding_format,omitempty"`
	HostPageURL    string     `json:"host_page_url,omitempty"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	CreatedDate    *time.Time `json:"created_date,omitempty"`
}

type resultReport struct {
	Query                 string        `json:"query"`
	Fetched               int           `json:"fetched"`
	Returned              int           `json:"returned"`
	TotalEstimatedMatches int           `json:"total_estimated_matches"`
	Images                []imageReport `json:"images"`
}

func searchReport(result *bing.SearchResult, fetched int) resultReport {
	images := make([]imageReport, 0, len(result.Images))
	for _, img := range result.Images {
		images = append(images, imageReport{
			ContentURL:     img.ContentURL,
			Name:           img.Name,
			Width:          img.Width,
			Height:         img.Height,
			ContentSize:    img.ContentSize,
			EncodingFormat: img.EncodingFormat,
			HostPageURL:    img.HostPageURL,
			ThumbnailURL:   img.ThumbnailURL,
			CreatedDate:    img.CreatedDate,
		})
	}
	return resultReport{
		Query:                 result.Query,
		Fetched:               fetched,
		Returned:              len(result.Images),
		TotalEstimatedMatches: result.TotalEstimatedMatches,
		Images:                images,
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

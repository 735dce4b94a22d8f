package filescope

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/filescope/filescope/internal/query"
	duckdbengine "github.com/filescope/filescope/internal/query/duckdb"
	s3store "github.com/filescope/filescope/internal/storage/s3"
	"github.com/filescope/filescope/internal/viewer"
)

func newViewCommand(a *app) *cobra.Command {
	var (
		page     int
		pageSize int
		sortCol  int
		order    string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "view <path>",
		Short: "Render one page of a parquet or CSV file",
		Long: `Render one page of a parquet or CSV file as a table.

The path is a local file by default. With --remote it is treated as an
object store key and the file is staged locally before scanning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortOrder, err := parseSortOrder(order)
			if err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = a.cfg.Viewer.DefaultPageSize
			}
			if pageSize > a.cfg.Viewer.MaxPageSize {
				pageSize = a.cfg.Viewer.MaxPageSize
			}

			request := query.Request{
				FilePath:   args[0],
				PageNumber: page,
				PageSize:   pageSize,
				SortColumn: sortCol,
				SortOrder:  sortOrder,
			}

			service := viewer.NewService(duckdbengine.NewEngine(), a.logger)

			var result *viewer.FetchResult
			if remote {
				store, err := s3store.New(s3store.Config{
					Endpoint:        a.cfg.ObjectStore.Endpoint,
					Region:          a.cfg.ObjectStore.Region,
					Bucket:          a.cfg.ObjectStore.Bucket,
					AccessKeyID:     a.cfg.ObjectStore.AccessKeyID,
					SecretAccessKey: a.cfg.ObjectStore.SecretAccessKey,
					UseSSL:          a.cfg.ObjectStore.UseSSL,
					Prefix:          a.cfg.ObjectStore.Prefix,
				})
				if err != nil {
					return fmt.Errorf("initialize object store: %w", err)
				}
				result, err = service.FetchRemote(cmd.Context(), store, request)
				if err != nil {
					return err
				}
			} else {
				result, err = service.Fetch(cmd.Context(), request)
				if err != nil {
					return err
				}
			}

			renderPage(a, result, page, pageSize)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config)")
	cmd.Flags().IntVar(&sortCol, "sort", 0, "1-based sort column index, 0 disables sorting")
	cmd.Flags().StringVar(&order, "order", "asc", "sort direction: asc or desc")
	cmd.Flags().BoolVar(&remote, "remote", false, "treat the path as an object store key")
	return cmd
}

func renderPage(a *app, result *viewer.FetchResult, page, pageSize int) {
	table := tablewriter.NewWriter(a.stdout)
	headers := make([]string, len(result.Columns))
	for i, column := range result.Columns {
		headers[i] = strings.ReplaceAll(column.Header(), "\n", " ")
	}
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	for _, row := range result.Rows {
		table.Append(row)
	}
	table.Render()

	total := fmt.Sprintf("%d", result.TotalRows)
	if result.TotalRows < 0 {
		total = "unknown"
	}
	fmt.Fprintf(a.stdout, "page %d of %d | %s rows total | %s\n",
		page, result.PageCount(pageSize), total, result.Duration)
}

func parseSortOrder(raw string) (query.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return query.SortUnsorted, nil
	case "asc", "ascending":
		return query.SortAscending, nil
	case "desc", "descending":
		return query.SortDescending, nil
	default:
		return query.SortUnsorted, fmt.Errorf("invalid sort order %q", raw)
	}
}

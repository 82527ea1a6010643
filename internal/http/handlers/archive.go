package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"lookbook/internal/domain"
	"lookbook/pkg/zip"
)

const (
	archiveFetchLimit = 4
	maxArchiveImage   = 25 << 20
)

// ArchiveBatch downloads every finished shot of a run and returns them as a
// single zip. Results that can no longer be fetched are left out.
func (a *App) ArchiveBatch(w http.ResponseWriter, r *http.Request) {
	run, err := a.Batches.GetForAccount(chi.URLParam(r, "id"), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	snap := run.Snapshot()
	if len(snap.Results) == 0 {
		a.error(w, http.StatusConflict, "no_results", "batch has no finished shots yet")
		return
	}

	files := make([]*zip.Asset, len(snap.Results))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(archiveFetchLimit)
	for i, res := range snap.Results {
		g.Go(func() error {
			data, err := a.download(ctx, res.URL)
			if err != nil {
				a.Logger.Warn().Err(err).Str("batch_id", snap.ID).Int("index", res.Index).Msg("archive: result skipped")
				return nil
			}
			files[i] = &zip.Asset{Filename: archiveName(res, data), Data: data}
			return nil
		})
	}
	_ = g.Wait()

	assets := make([]zip.Asset, 0, len(files))
	for _, f := range files {
		if f != nil {
			assets = append(assets, *f)
		}
	}
	if len(assets) == 0 {
		a.error(w, http.StatusBadGateway, "provider_failure", "no result could be downloaded")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lookbook-%s.zip"`, snap.ID))
	if err := zip.WriteAssets(w, assets); err != nil {
		a.Logger.Error().Err(err).Str("batch_id", snap.ID).Msg("archive: write failed")
	}
}

func (a *App) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.Fetch.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxArchiveImage))
}

func archiveName(res domain.GenerationResult, data []byte) string {
	ext := path.Ext(strings.SplitN(res.URL, "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		switch http.DetectContentType(data) {
		case "image/jpeg":
			ext = ".jpg"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".png"
		}
	}
	return fmt.Sprintf("%02d-%s%s", res.Index+1, res.View, ext)
}

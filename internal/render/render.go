// Package render turns a game card into an HTML artifact on disk. The
// artifact path feeds the publisher as the media attachment source.
package render

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/types"
)

var _ interfaces.Renderer = (*HTMLRenderer)(nil)

// HTMLRenderer writes one file per card under
// <dir>/<YYYY-MM-DD>/lineup_<Away>_vs_<Home>_<gameID>.html.
type HTMLRenderer struct {
	dir  string
	tmpl *template.Template
}

func NewHTML(dir string) (*HTMLRenderer, error) {
	tmpl, err := template.New("card").Parse(cardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse card template: %w", err)
	}
	return &HTMLRenderer{dir: dir, tmpl: tmpl}, nil
}

// Render writes the card and returns the artifact path.
func (r *HTMLRenderer) Render(ctx context.Context, card *types.GameCard) (string, error) {
	date, err := time.Parse("01/02/2006", card.GameDate)
	if err != nil {
		date = time.Now()
	}
	dayDir := filepath.Join(r.dir, date.Format("2006-01-02"))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	name := fmt.Sprintf("lineup_%s_vs_%s_%d.html",
		fileToken(card.AwayTeam), fileToken(card.HomeTeam), card.GameID)
	path := filepath.Join(dayDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := r.tmpl.Execute(f, card); err != nil {
		return "", fmt.Errorf("render card %d: %w", card.GameID, err)
	}
	logger.Debug(ctx, "Card rendered", "game_id", card.GameID, "path", path)
	return path, nil
}

var artifactDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// OrganizeExisting moves loose artifacts out of the base directory
// into per-date folders. The date comes from the filename when present,
// today otherwise. Existing files are never overwritten.
func (r *HTMLRenderer) OrganizeExisting(ctx context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	moved := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		dateFolder := artifactDate.FindString(entry.Name())
		if dateFolder == "" {
			dateFolder = time.Now().Format("2006-01-02")
		}
		dayDir := filepath.Join(r.dir, dateFolder)
		if err := os.MkdirAll(dayDir, 0o755); err != nil {
			return err
		}
		dst := filepath.Join(dayDir, entry.Name())
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.Rename(filepath.Join(r.dir, entry.Name()), dst); err != nil {
			logger.Warn(ctx, "Failed to organize artifact", "file", entry.Name(), "error", err)
			continue
		}
		moved++
	}
	if moved > 0 {
		logger.Info(ctx, "Organized loose artifacts", "count", moved)
	}
	return nil
}

func fileToken(team string) string {
	return strings.ReplaceAll(team, " ", "_")
}

const cardTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.AwayTeam}} @ {{.HomeTeam}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; background: #0b1d33; color: #f4f4f4; margin: 0; padding: 24px; }
h1 { font-size: 22px; margin: 0 0 4px; }
.meta { color: #9db2c9; font-size: 13px; margin-bottom: 18px; }
.teams { display: flex; gap: 24px; }
.team { flex: 1; background: #12283f; border-radius: 8px; padding: 16px; }
.team h2 { font-size: 17px; margin: 0 0 2px; }
.record { color: #9db2c9; font-size: 12px; margin-bottom: 10px; }
.pitcher { font-size: 13px; padding: 6px 0; border-bottom: 1px solid #1e3a57; margin-bottom: 8px; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
td { padding: 4px 6px; border-bottom: 1px solid #1e3a57; }
td.order { width: 18px; color: #9db2c9; }
td.pos { width: 32px; color: #9db2c9; }
tr.hot td.name { color: #ff7043; }
tr.cold td.name { color: #4fc3f7; }
.stats { color: #c9d8e8; }
</style>
</head>
<body>
<h1>{{.AwayTeam}} @ {{.HomeTeam}}</h1>
<div class="meta">{{.GameDate}}{{if .GameTime}} &middot; {{.GameTime}}{{end}}{{if .Venue}} &middot; {{.Venue}}{{end}}</div>
<div class="teams">
<div class="team">
<h2>{{.AwayTeam}}</h2>
<div class="record">{{.AwayRecord}}</div>
<div class="pitcher">SP: {{.AwayPitcher.Name}}{{if .AwayPitcher.Stats}} &mdash; {{.AwayPitcher.Stats}}{{end}}</div>
<table>
{{range .AwayLineup}}<tr class="{{.Trend}}"><td class="order">{{.Order}}</td><td class="name">{{.Name}}</td><td class="pos">{{.Position}}</td><td class="stats">{{.Stats}}</td></tr>
{{end}}</table>
</div>
<div class="team">
<h2>{{.HomeTeam}}</h2>
<div class="record">{{.HomeRecord}}</div>
<div class="pitcher">SP: {{.HomePitcher.Name}}{{if .HomePitcher.Stats}} &mdash; {{.HomePitcher.Stats}}{{end}}</div>
<table>
{{range .HomeLineup}}<tr class="{{.Trend}}"><td class="order">{{.Order}}</td><td class="name">{{.Name}}</td><td class="pos">{{.Position}}</td><td class="stats">{{.Stats}}</td></tr>
{{end}}</table>
</div>
</div>
</body>
</html>
`

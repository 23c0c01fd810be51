package server

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maxbolgarin/erro"
)

var (
	templateFuncMap = template.FuncMap{
		"ago": func(date time.Time) string {
			return humanize.Time(date)
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		// percent of v relative to the first (largest) value of a sorted series, for plain bars
		"percent": func(v, top int) int {
			if top <= 0 {
				return 0
			}
			return v * 100 / top
		},
		"short": func(sha string) string {
			if len(sha) > 8 {
				return sha[:8]
			}
			return sha
		},
	}

	//go:embed _templates
	templateFs embed.FS
)

func parseTemplates() (*template.Template, error) {
	subFs, err := fs.Sub(templateFs, "_templates")
	if err != nil {
		return nil, erro.Wrap(err, "can not load subdirectory")
	}

	tpl, err := template.New("templates").Funcs(templateFuncMap).ParseFS(subFs, "*.html")
	if err != nil {
		return nil, erro.Wrap(err, "can not load templates")
	}

	return tpl, nil
}

package server

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/maloquacious/goobcms/internal/info"
	"github.com/maloquacious/goobcms/internal/templating"
)

const homeTemplate = `<!doctype html>
<html lang="{{.Language}}">
<head><meta charset="utf-8"><title>{{.SiteName}}</title></head>
<body id="{{handle .SiteName}}">
<h1><a href="{{.SiteURL}}">{{.SiteName}}</a></h1>
<p>Running {{.Version}}, released {{(num .Released).FormatDate "yyyy-MM-dd"}}.</p>
<p>Up for {{(num .Uptime).ToHumanTimeDuration}}.</p>
</body>
</html>
`

var home = template.Must(templating.ParseHTML("home", homeTemplate))

type homePage struct {
	SiteName string
	SiteURL  string
	Language string
	Version  string
	Released int64
	Uptime   float64
}

// PublicHandler returns the public HTML routes.
func (s *Server) PublicHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.homePage)

	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// not ready until the site is installed
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !s.installed.Get() {
			http.Error(w, "NOT INSTALLED", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	// static under /public/* (maps to the public directory)
	mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir(s.publicDir))))

	return mux
}

func (s *Server) homePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !s.installed.Get() || s.store == nil {
		http.Error(w, "This site has not been installed yet.", http.StatusServiceUnavailable)
		return
	}
	row, err := info.New().Load(r.Context(), s.store.DB())
	if err != nil {
		s.log.Error("home page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = home.Execute(&buf, homePage{
		SiteName: row.SiteName,
		SiteURL:  row.SiteURL,
		Language: row.Language,
		Version:  row.Version,
		Released: row.ReleaseDate.Unix(),
		Uptime:   time.Since(s.started).Seconds(),
	})
	if err != nil {
		s.log.Error("home page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

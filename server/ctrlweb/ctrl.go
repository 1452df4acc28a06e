// Package ctrlweb provides HTTP handlers for the html listing pages
package ctrlweb

import (
	"encoding/gob"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/sessions"
	"github.com/oxtoacart/bpool"
	"github.com/sentriz/gormstore"

	"go.senan.xyz/fyyur"
	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/forms"
	"go.senan.xyz/fyyur/server/ctrlbase"
	"go.senan.xyz/fyyur/server/ctrlweb/webui"
)

type CtxKey int

const (
	CtxSession CtxKey = iota
)

const sessionName = "fyyur"

// recentLimit is how many venues and artists the home page lists
const recentLimit = 10

// extendFromPaths /extends/ the given template for every file matching
// the given pattern
func extendFromPaths(b *template.Template, pattern string) (*template.Template, error) {
	paths, err := fs.Glob(webui.TemplatesFS, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	for _, path := range paths {
		tmplStr, err := fs.ReadFile(webui.TemplatesFS, path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		if b, err = b.Parse(string(tmplStr)); err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
	}
	return b, nil
}

// pagesFromPaths /clones/ the given template for every file matching
// the given pattern, extends it, and insert it into a new map
func pagesFromPaths(b *template.Template, pattern string) (map[string]*template.Template, error) {
	paths, err := fs.Glob(webui.TemplatesFS, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	ret := map[string]*template.Template{}
	for _, path := range paths {
		tmplStr, err := fs.ReadFile(webui.TemplatesFS, path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		clone, err := b.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if ret[filepath.Base(path)], err = clone.Parse(string(tmplStr)); err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
	}
	return ret, nil
}

const (
	prefixPartials = "partials/*.tmpl"
	prefixLayouts  = "layouts/*.tmpl"
	prefixPages    = "pages/*.tmpl"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"noCache": func(in string) string {
			parsed, _ := url.Parse(in)
			params := parsed.Query()
			params.Set("v", fyyur.Version)
			parsed.RawQuery = params.Encode()
			return parsed.String()
		},
		"showTime": func(in time.Time) string {
			return in.Format("Mon Jan 2, 2006 3:04PM")
		},
		"dateHuman": humanize.Time,
		"genres":    func() []string { return forms.Genres },
		"states":    func() []string { return forms.States },
	}
}

type Controller struct {
	*ctrlbase.Controller
	buffPool  *bpool.BufferPool
	templates map[string]*template.Template
	sessDB    *gormstore.Store
}

func New(b *ctrlbase.Controller, sessDB *gormstore.Store) (*Controller, error) {
	tmplBase := template.
		New("layout").
		Funcs(sprig.FuncMap()).
		Funcs(funcMap()).       // static
		Funcs(template.FuncMap{ // from base
			"path": b.Path,
		})
	tmplBase, err := extendFromPaths(tmplBase, prefixPartials)
	if err != nil {
		return nil, fmt.Errorf("extend partials: %w", err)
	}
	tmplBase, err = extendFromPaths(tmplBase, prefixLayouts)
	if err != nil {
		return nil, fmt.Errorf("extend layouts: %w", err)
	}
	pages, err := pagesFromPaths(tmplBase, prefixPages)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return &Controller{
		Controller: b,
		buffPool:   bpool.NewBufferPool(64),
		templates:  pages,
		sessDB:     sessDB,
	}, nil
}

type templateData struct {
	// common
	Flashes   []interface{}
	Version   string
	RequestID string
	// lists
	Areas   []*db.Area
	Venues  []*db.Venue
	Artists []*db.Artist
	Shows   []*db.Show
	//
	SearchTerm string
	// single venue or artist
	Venue         *db.Venue
	Artist        *db.Artist
	PastShows     []*db.Show
	UpcomingShows []*db.Show
	// forms
	FormTitle  string
	FormAction string
	VenueForm  *forms.Venue
	ArtistForm *forms.Artist
}

type Response struct {
	// code is 200
	template string
	data     *templateData
	// code is 303
	redirect string
	flashN   []string // normal
	flashW   []string // warning
	// code is >= 400
	code int
	err  string
}

type handlerWeb func(r *http.Request) *Response

func (c *Controller) H(h handlerWeb) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := h(r)
		session, ok := r.Context().Value(CtxSession).(*sessions.Session)
		if ok {
			sessAddFlashN(session, resp.flashN)
			sessAddFlashW(session, resp.flashW)
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		if resp.redirect != "" {
			to := resp.redirect
			if strings.HasPrefix(to, "/") {
				to = c.Path(to)
			}
			http.Redirect(w, r, to, http.StatusSeeOther)
			return
		}
		if resp.err != "" {
			http.Error(w, resp.err, resp.code)
			return
		}
		if resp.template == "" {
			http.Error(w, "useless handler return", 500)
			return
		}
		if resp.data == nil {
			resp.data = &templateData{}
		}
		resp.data.Version = fyyur.Version
		resp.data.RequestID = ctrlbase.RequestID(r)
		if session != nil {
			resp.data.Flashes = session.Flashes()
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		buff := c.buffPool.Get()
		defer c.buffPool.Put(buff)
		tmpl, ok := c.templates[resp.template]
		if !ok {
			http.Error(w, fmt.Sprintf("finding template %q", resp.template), 500)
			return
		}
		if err := tmpl.Execute(buff, resp.data); err != nil {
			ctrlbase.Logger(r).Errorw("executing template", "template", resp.template, "err", err)
			http.Error(w, fmt.Sprintf("executing template: %v", err), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if resp.code != 0 {
			w.WriteHeader(resp.code)
		}
		if _, err := buff.WriteTo(w); err != nil {
			ctrlbase.Logger(r).Warnw("writing response buffer", "err", err)
		}
	})
}

// ## begin utilities
// ## begin utilities
// ## begin utilities

type FlashType string

const (
	FlashNormal  = FlashType("normal")
	FlashWarning = FlashType("warning")
)

type Flash struct {
	Message string
	Type    FlashType
}

func init() {
	gob.Register(&Flash{})
}

func sessAddFlashN(s *sessions.Session, messages []string) {
	sessAddFlash(s, messages, FlashNormal)
}

func sessAddFlashW(s *sessions.Session, messages []string) {
	sessAddFlash(s, messages, FlashWarning)
}

func sessAddFlash(s *sessions.Session, messages []string, flashT FlashType) {
	if len(messages) == 0 {
		return
	}
	for i, message := range messages {
		if i > 6 {
			break
		}
		s.AddFlash(Flash{
			Message: message,
			Type:    flashT,
		})
	}
}

func notFound() *Response {
	return &Response{template: "not_found.tmpl", code: http.StatusNotFound}
}

func serverError() *Response {
	return &Response{template: "server_error.tmpl", code: http.StatusInternalServerError}
}

// failure logs a failed write and builds the response telling the user it
// didn't happen. constraint violations are the user's doing so they're only
// warned about
func failure(r *http.Request, err error, what string) *Response {
	log := ctrlbase.Logger(r).With("err", err)
	if db.IsConstraint(err) {
		log.Warnw("constraint failed", "what", what)
	} else {
		log.Errorw("database failure", "what", what)
	}
	return &Response{
		redirect: "/",
		flashW:   []string{fmt.Sprintf("An error occurred. %s.", what)},
	}
}

// validationFailure sends the user back to the form they came from, with every
// problem flashed
func validationFailure(err error, back string) *Response {
	var verrs forms.ValidationErrors
	if !errors.As(err, &verrs) {
		verrs = forms.ValidationErrors{err.Error()}
	}
	return &Response{
		redirect: back,
		flashW:   verrs,
	}
}

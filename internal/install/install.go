// Package install performs the one-time installation of the CMS.
//
// Run creates the schema in two passes, writes the info row, creates the first
// admin account and seeds the default content, all inside one transaction.
// Steps report an Outcome: fatal outcomes roll everything back, advisory
// outcomes are logged and the install carries on.
package install

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maloquacious/goobcms/internal/accounts"
	"github.com/maloquacious/goobcms/internal/content"
	"github.com/maloquacious/goobcms/internal/dashboard"
	"github.com/maloquacious/goobcms/internal/edition"
	"github.com/maloquacious/goobcms/internal/email"
	"github.com/maloquacious/goobcms/internal/i18n"
	"github.com/maloquacious/goobcms/internal/info"
	"github.com/maloquacious/goobcms/internal/logger"
	"github.com/maloquacious/goobcms/internal/records"
	"github.com/maloquacious/goobcms/internal/settings"
	"github.com/maloquacious/goobcms/internal/state"
	"github.com/maloquacious/goobcms/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// DefaultProduct is the product name used in user-facing messages.
const DefaultProduct = "GoobCMS"

// Inputs is what the person installing the site supplies.
type Inputs struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	Language   string `json:"language"`
	LicenseKey string `json:"license_key"`
}

// Release identifies the build being installed.
type Release struct {
	Version     string
	Build       string
	ReleaseDate time.Time
}

// Store is the part of the store the installer needs.
type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	IsInstalled(ctx context.Context) (bool, error)
}

type Accounts interface {
	Create(ctx context.Context, db store.DBTX, in accounts.NewUser) (*accounts.User, error)
	Login(ctx context.Context, db store.DBTX, username, password string) (*accounts.Session, error)
}

type Content interface {
	SaveSection(ctx context.Context, db store.DBTX, sec content.Section) (*content.Section, error)
	SaveEntryBlock(ctx context.Context, db store.DBTX, b content.EntryBlock) (*content.EntryBlock, error)
}

type Email interface {
	RegisterMessage(ctx context.Context, db store.DBTX, key string) (*email.Message, error)
	SaveMessageContent(ctx context.Context, db store.DBTX, messageID int64, language, subject, body string) (*email.MessageContent, error)
}

type Settings interface {
	SaveSettings(ctx context.Context, db store.DBTX, category string, values any) error
}

type Dashboard interface {
	AddDefaultUserWidgets(ctx context.Context, db store.DBTX, userID int64) error
}

type Info interface {
	Save(ctx context.Context, db store.DBTX, r info.Row) error
}

type Translator interface {
	T(locale, key string, params map[string]string) string
}

// Options configures an Installer. Only Store is required.
type Options struct {
	Store      Store
	Release    Release
	Edition    edition.Edition
	Product    string
	Pattern    string
	Registry   *records.Registry
	Candidates []records.Candidate // overrides Registry when set
	Installed  *state.Installed

	Accounts   Accounts
	Content    Content
	Email      Email
	Settings   Settings
	Dashboard  Dashboard
	Info       Info
	Translator Translator

	Logger  logger.Logger
	Metrics *Metrics
}

// Installer runs installs against one store.
type Installer struct {
	store      Store
	release    Release
	edition    edition.Edition
	product    string
	pattern    string
	candidates []records.Candidate
	installed  *state.Installed

	accounts   Accounts
	content    Content
	email      Email
	settings   Settings
	dashboard  Dashboard
	info       Info
	translator Translator

	log     logger.Logger
	metrics *Metrics
}

// New returns an Installer, filling unset options with the package defaults.
func New(opts Options) *Installer {
	in := &Installer{
		store:      opts.Store,
		release:    opts.Release,
		edition:    opts.Edition,
		product:    opts.Product,
		pattern:    opts.Pattern,
		candidates: opts.Candidates,
		installed:  opts.Installed,
		accounts:   opts.Accounts,
		content:    opts.Content,
		email:      opts.Email,
		settings:   opts.Settings,
		dashboard:  opts.Dashboard,
		info:       opts.Info,
		translator: opts.Translator,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
	if in.edition == nil {
		in.edition = edition.Community{}
	}
	if in.product == "" {
		in.product = DefaultProduct
	}
	if in.pattern == "" {
		in.pattern = records.DefaultPattern
	}
	if in.candidates == nil {
		reg := opts.Registry
		if reg == nil {
			reg = records.DefaultRegistry()
		}
		in.candidates = reg.Candidates()
	}
	if in.installed == nil {
		in.installed = state.Global
	}
	if in.accounts == nil {
		in.accounts = accounts.New(bcrypt.DefaultCost, 0)
	}
	if in.content == nil {
		in.content = content.New()
	}
	if in.email == nil {
		in.email = email.New()
	}
	if in.settings == nil {
		in.settings = settings.New()
	}
	if in.dashboard == nil {
		in.dashboard = dashboard.New()
	}
	if in.info == nil {
		in.info = info.New()
	}
	if in.translator == nil {
		in.translator = i18n.Default()
	}
	if in.log == nil {
		in.log = logger.Default
	}
	if in.metrics == nil {
		in.metrics = NewMetrics(nil)
	}
	return in
}

// run is the state shared by the steps of one install.
type run struct {
	tx      *sql.Tx
	inputs  Inputs
	records []records.Installable
	user    *accounts.User
	flipped bool
	report  *Report
}

// Run installs the application. It returns an *Error wrapping
// ErrAlreadyInstalled when the application is already installed, and an
// *Error describing the failed step when a fatal step fails. Nothing is
// persisted unless Run returns a nil error.
func (in *Installer) Run(ctx context.Context, inputs Inputs) (*Report, error) {
	started := time.Now()
	locale := inputs.Language

	installed, err := in.isInstalled(ctx)
	if err != nil {
		in.metrics.run(resultFailed)
		return nil, err
	}
	if installed {
		in.metrics.run(resultRejected)
		msg := in.translator.T(locale, "install.already_installed", map[string]string{"product": in.product})
		in.log.Warn("%s", msg)
		return nil, &Error{Step: stepPrecondition, Kind: Fatal, Message: msg, Err: ErrAlreadyInstalled}
	}

	tx, err := in.store.BeginTx(ctx)
	if err != nil {
		in.metrics.run(resultFailed)
		return nil, fmt.Errorf("begin install: %w", err)
	}

	r := &run{
		tx:     tx,
		inputs: inputs,
		report: &Report{Edition: in.edition.Name()},
	}

	// Anything short of a commit, a panicking step included, undoes the install.
	committed := false
	defer func() {
		if !committed {
			in.rollback(r)
			in.metrics.run(resultRolledBack)
		}
	}()

	for _, s := range in.steps() {
		stepStarted := time.Now()
		out := s.fn(ctx, r)
		in.metrics.step(s.name, time.Since(stepStarted))

		switch out.Status {
		case AdvisoryFailure:
			in.metrics.advisory(s.name)
			r.report.Advisories = append(r.report.Advisories, AdvisoryNote{Step: s.name, Message: out.Err.Err.Error()})
		case FatalFailure:
			in.log.Error("Install failed at %s: %v", s.name, out.Err.Err)
			return nil, out.Err
		}
	}

	in.log.Info("Finished installing %s, committing the transaction.", in.product)
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit install: %w", err)
	}
	committed = true
	in.metrics.run(resultCommitted)

	r.report.Duration = time.Since(started)
	in.logAdvisories(r.report)
	return r.report, nil
}

func (in *Installer) isInstalled(ctx context.Context) (bool, error) {
	if in.installed.Get() {
		return true, nil
	}
	ok, err := in.store.IsInstalled(ctx)
	if err != nil {
		return false, fmt.Errorf("check installed: %w", err)
	}
	return ok, nil
}

func (in *Installer) rollback(r *run) {
	if err := r.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		in.log.Error("Rolling back the install failed: %v", err)
	}
	if r.flipped {
		in.installed.Set(false)
	}
}

func (in *Installer) logAdvisories(rep *Report) {
	if len(rep.Advisories) == 0 {
		in.log.Info("%s installed in %s.", in.product, rep.Duration.Round(time.Millisecond))
		return
	}
	in.log.Warn("%s installed in %s with %d problem(s):", in.product, rep.Duration.Round(time.Millisecond), len(rep.Advisories))
	for _, a := range rep.Advisories {
		in.log.Warn("  %s: %s", a.Step, a.Message)
	}
}

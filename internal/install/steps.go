package install

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maloquacious/goobcms/internal/accounts"
	"github.com/maloquacious/goobcms/internal/content"
	"github.com/maloquacious/goobcms/internal/info"
	"github.com/maloquacious/goobcms/internal/records"
	"github.com/maloquacious/goobcms/internal/settings"
	"github.com/maloquacious/goobcms/internal/validation"
)

const (
	stepPrecondition   = "precondition"
	stepDiscover       = "discover_records"
	stepTables         = "create_tables"
	stepForeignKeys    = "add_foreign_keys"
	stepInstalledFlag  = "installed_flag"
	stepInfo           = "info_row"
	stepEmailMessages  = "email_messages"
	stepUser           = "admin_user"
	stepLogin          = "login"
	stepWidgets        = "dashboard_widgets"
	stepMailSettings   = "mail_settings"
	stepDefaultContent = "default_content"
)

// DefaultEmailMessages are the message keys registered by editions that send email.
var DefaultEmailMessages = []string{"verify_email", "verify_new_email", "forgot_password"}

type step struct {
	name string
	fn   func(ctx context.Context, r *run) Outcome
}

func (in *Installer) steps() []step {
	return []step{
		{stepDiscover, in.discoverRecords},
		{stepTables, in.createTables},
		{stepForeignKeys, in.addForeignKeys},
		{stepInstalledFlag, in.setInstalled},
		{stepInfo, in.populateInfo},
		{stepEmailMessages, in.registerEmailMessages},
		{stepUser, in.createUser},
		{stepLogin, in.login},
		{stepWidgets, in.addWidgets},
		{stepMailSettings, in.saveMailSettings},
		{stepDefaultContent, in.createDefaultContent},
	}
}

// problem translates key with the error's messages. Validation errors are
// joined the way the admin UI shows them.
func (in *Installer) problem(r *run, key string, err error) string {
	msg := err.Error()
	var errs validation.Errors
	if errors.As(err, &errs) {
		msg = errs.Join(validation.Separator)
	}
	return in.translator.T(r.inputs.Language, key, map[string]string{"errorMessages": msg})
}

func (in *Installer) discoverRecords(_ context.Context, r *run) Outcome {
	recs, err := records.Discover(in.pattern, in.candidates)
	if err != nil {
		return fatal(stepDiscover, in.problem(r, "install.schema_problem", err), err)
	}
	if len(recs) == 0 {
		err := fmt.Errorf("no records match %q", in.pattern)
		return fatal(stepDiscover, in.problem(r, "install.schema_problem", err), err)
	}
	r.records = recs
	for _, rec := range recs {
		r.report.Records = append(r.report.Records, rec.Name)
	}
	return succeeded()
}

func (in *Installer) createTables(ctx context.Context, r *run) Outcome {
	for _, rec := range r.records {
		in.log.Info("Creating table for record: %s", rec.Name)
		if err := rec.Record.CreateTable(ctx, r.tx); err != nil {
			err = fmt.Errorf("%s: %w", rec.Name, err)
			return fatal(stepTables, in.problem(r, "install.schema_problem", err), err)
		}
	}
	return succeeded()
}

func (in *Installer) addForeignKeys(ctx context.Context, r *run) Outcome {
	for _, rec := range r.records {
		in.log.Info("Adding foreign keys for record: %s", rec.Name)
		if err := rec.AddForeignKeys(ctx, r.tx); err != nil {
			err = fmt.Errorf("%s: %w", rec.Name, err)
			return fatal(stepForeignKeys, in.problem(r, "install.schema_problem", err), err)
		}
	}
	return succeeded()
}

func (in *Installer) setInstalled(_ context.Context, r *run) Outcome {
	in.installed.Set(true)
	r.flipped = true
	return succeeded()
}

func (in *Installer) populateInfo(ctx context.Context, r *run) Outcome {
	in.log.Info("Populating the info table.")
	key, err := in.edition.LicenseKey(r.inputs.LicenseKey)
	if err != nil {
		return fatal(stepInfo, in.problem(r, "install.info_problem", err), err)
	}
	row := info.Row{
		Version:     in.release.Version,
		Build:       in.release.Build,
		ReleaseDate: in.release.ReleaseDate,
		SiteName:    r.inputs.SiteName,
		SiteURL:     r.inputs.SiteURL,
		Language:    r.inputs.Language,
		LicenseKey:  key,
		Installed:   true,
	}
	if err := in.info.Save(ctx, r.tx, row); err != nil {
		return fatal(stepInfo, in.problem(r, "install.info_problem", err), err)
	}
	r.report.LicenseKey = strings.ToUpper(strings.TrimSpace(key))
	return succeeded()
}

func (in *Installer) registerEmailMessages(ctx context.Context, r *run) Outcome {
	if !in.edition.RegistersEmailMessages() {
		return succeeded()
	}
	in.log.Info("Registering email messages.")
	var failed []error
	for _, key := range DefaultEmailMessages {
		if err := in.registerEmailMessage(ctx, r, key); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return advisory(stepEmailMessages, errors.Join(failed...))
	}
	return succeeded()
}

func (in *Installer) registerEmailMessage(ctx context.Context, r *run, key string) error {
	msg, err := in.email.RegisterMessage(ctx, r.tx, key)
	if err != nil {
		in.log.Warn("There was a problem registering email with key %s: %v", key, err)
		return fmt.Errorf("register %s: %w", key, err)
	}
	lang := r.inputs.Language
	subject := in.translator.T(lang, "email."+key+"_subject", nil)
	body := in.translator.T(lang, "email."+key+"_body", nil)
	if _, err := in.email.SaveMessageContent(ctx, r.tx, msg.ID, lang, subject, body); err != nil {
		in.log.Warn("There was a problem saving email message content: %v", err)
		return fmt.Errorf("save %s content: %w", key, err)
	}
	return nil
}

func (in *Installer) createUser(ctx context.Context, r *run) Outcome {
	in.log.Info("Creating user.")
	u, err := in.accounts.Create(ctx, r.tx, accounts.NewUser{
		Username: r.inputs.Username,
		Email:    r.inputs.Email,
		Password: r.inputs.Password,
		Admin:    true,
		Language: in.edition.UserLanguage(r.inputs.Language),
	})
	if err != nil {
		return fatal(stepUser, in.problem(r, "install.user_problem", err), err)
	}
	r.user = u
	r.report.UserID = u.ID
	return succeeded()
}

func (in *Installer) login(ctx context.Context, r *run) Outcome {
	in.log.Info("Logging in user.")
	sess, err := in.accounts.Login(ctx, r.tx, r.user.Username, r.inputs.Password)
	if err != nil {
		in.log.Error("Could not log the user in during install: %v", err)
		return advisory(stepLogin, err)
	}
	r.report.SessionToken = sess.Token
	return succeeded()
}

func (in *Installer) addWidgets(ctx context.Context, r *run) Outcome {
	in.log.Info("Assigning default dashboard widgets to user.")
	if err := in.dashboard.AddDefaultUserWidgets(ctx, r.tx, r.user.ID); err != nil {
		return fatal(stepWidgets, in.problem(r, "install.widgets_problem", err), err)
	}
	return succeeded()
}

func (in *Installer) saveMailSettings(ctx context.Context, r *run) Outcome {
	in.log.Info("Saving default mail settings.")
	values := settings.Email{
		Protocol:     settings.ProtocolSendmail,
		EmailAddress: r.user.Email,
		SenderName:   strings.TrimSpace(r.inputs.SiteName),
	}
	if err := in.settings.SaveSettings(ctx, r.tx, settings.CategoryEmail, values); err != nil {
		in.log.Error("Could not save default email settings: %v", err)
		return advisory(stepMailSettings, err)
	}
	return succeeded()
}

func (in *Installer) createDefaultContent(ctx context.Context, r *run) Outcome {
	lang := r.inputs.Language
	in.log.Info(`Creating default "Blog" section.`)
	sec, err := in.content.SaveSection(ctx, r.tx, content.Section{
		Name:      in.translator.T(lang, "content.blog", nil),
		Handle:    "blog",
		URLFormat: "blog/{slug}",
		HasURLs:   true,
		Template:  "blog/_entry",
	})
	if err != nil {
		return fatal(stepDefaultContent, in.problem(r, "install.content_problem", err), err)
	}

	in.log.Info(`Giving "Blog" section a "Body" block.`)
	_, err = in.content.SaveEntryBlock(ctx, r.tx, content.EntryBlock{
		SectionID:    sec.ID,
		Name:         in.translator.T(lang, "content.body", nil),
		Handle:       "body",
		Class:        content.ClassPlainText,
		Required:     true,
		Translatable: in.edition.TranslatableContent(),
		Settings:     map[string]any{"hint": in.translator.T(lang, "content.body_hint", nil)},
	})
	if err != nil {
		return fatal(stepDefaultContent, in.problem(r, "install.content_problem", err), err)
	}
	return succeeded()
}

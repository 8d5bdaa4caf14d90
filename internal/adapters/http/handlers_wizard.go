package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"portal/internal/adapters/backend"
	"portal/internal/adapters/http/middleware"
	"portal/internal/application/orchestrators"
	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/registration"
	"portal/internal/domain/wizard"
)

// parseTarget reads the feature target from query or form values.
func parseTarget(get func(string) string) (registration.Target, error) {
	ft, err := registration.ParseFeatureType(get("feature_type"))
	if err != nil {
		return registration.Target{}, err
	}
	var featureID int64
	if raw := get("feature_id"); raw != "" {
		featureID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return registration.Target{}, registration.ErrMissingFeatureID
		}
	}
	target := registration.Target{Type: ft, FeatureID: featureID}
	if err := target.Validate(); err != nil {
		return registration.Target{}, err
	}
	return target, nil
}

func targetQuery(target registration.Target) string {
	q := url.Values{"feature_type": {target.Type}}
	if target.FeatureID > 0 {
		q.Set("feature_id", strconv.FormatInt(target.FeatureID, 10))
	}
	return q.Encode()
}

// startWizard rebuilds the per-request wizard state: schema, profile
// prefill, and draft restore.
func startWizard(r *http.Request, target registration.Target) (orchestrators.StartWizardResult, error) {
	return orchestrators.ExecuteStartWizard(r.Context(), orchestrators.StartWizardInput{
		VisitorID: middleware.VisitorID(r.Context()),
		Target:    target,
	}, orchestrators.StartWizardDeps{
		Forms:    services.Backend,
		Profiles: services.Backend,
		Drafts:   services.Drafts,
		Now:      timeNow,
	})
}

// handleWizard shows the current step of the registration wizard.
func handleWizard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	target, err := parseTarget(r.URL.Query().Get)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	res, err := startWizard(r, target)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !res.HasForm {
		// An independent form is the feature itself; without it there is
		// nothing to register for.
		if target.Type == registration.FeatureIndependent {
			http.NotFound(w, r)
			return
		}
		renderTemplate(w, r, "wizard_confirm.html", map[string]any{
			"Title":       "Konfirmasi Pendaftaran",
			"Target":      target,
			"TargetQuery": targetQuery(target),
		})
		return
	}
	renderWizardStep(w, r, target, res, nil)
}

// renderWizardStep renders the session's current section with values
// pre-filled and any validation errors attached to their fields.
func renderWizardStep(w http.ResponseWriter, r *http.Request, target registration.Target, res orchestrators.StartWizardResult, verrs form.ValidationErrors) {
	session := res.Session
	section, ok := session.CurrentSection()
	if !ok {
		renderError(w, r, http.StatusBadRequest, "formulir tidak memiliki langkah yang bisa diisi")
		return
	}

	values := session.CombinedRecord()
	fields := make([]FieldView, 0, len(section.Fields))
	for _, f := range section.Fields {
		if f.Hidden {
			continue
		}
		value, present := values[f.Key]
		if !present {
			value = f.DefaultValue
		}
		fields = append(fields, FieldView{
			Field:  f,
			Widget: renderField(f, value),
			Error:  verrs[f.Key],
		})
	}

	renderTemplate(w, r, "wizard_step.html", map[string]any{
		"Title":       res.Form.FormName,
		"Form":        res.Form,
		"Section":     section,
		"Fields":      fields,
		"StepIndex":   session.StepIndex(),
		"TotalSteps":  session.TotalSteps(),
		"AtFirstStep": session.AtFirstStep(),
		"IsLastStep":  session.StepIndex() == session.TotalSteps()-1,
		"Restored":    res.Restored,
		"Target":      target,
		"TargetQuery": targetQuery(target),
	})
}

// sectionValues parses the posted form into the typed values of the current
// section's fields.
func sectionValues(r *http.Request, section form.Section) form.ValueRecord {
	values := form.ValueRecord{}
	for _, f := range section.Fields {
		if f.Hidden || f.Disabled {
			continue
		}
		values[f.Key] = form.ParseSubmitted(f, r.PostForm[f.Key])
	}
	return values
}

// handleWizardStep accepts one step's values and advances or submits.
func handleWizardStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	target, err := parseTarget(r.PostForm.Get)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	res, err := startWizard(r, target)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !res.HasForm {
		http.Redirect(w, r, "/register?"+targetQuery(target), http.StatusSeeOther)
		return
	}

	section, ok := res.Session.CurrentSection()
	if !ok {
		renderError(w, r, http.StatusBadRequest, "formulir tidak memiliki langkah yang bisa diisi")
		return
	}

	visitorID := middleware.VisitorID(r.Context())
	stepRes, err := orchestrators.ExecuteSubmitStep(r.Context(), orchestrators.SubmitStepInput{
		VisitorID: visitorID,
		Target:    target,
		Session:   res.Session,
		Values:    sectionValues(r, section),
	}, orchestrators.SubmitStepDeps{
		Profiles:   services.Backend,
		Drafts:     services.Drafts,
		Registrar:  services.Backend,
		Now:        timeNow,
		GenerateID: generateID,
	})
	switch {
	case errors.Is(err, registration.ErrAlreadyRegistered):
		renderTemplate(w, r, "wizard_success.html", map[string]any{
			"Title":   "Sudah Terdaftar",
			"Message": registration.ErrAlreadyRegistered.Error(),
		})
		return
	case err != nil:
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}

	if stepRes.Errors.HasErrors() {
		renderWizardStep(w, r, target, res, stepRes.Errors)
		return
	}
	if !stepRes.Submitted {
		http.Redirect(w, r, "/register?"+targetQuery(target), http.StatusSeeOther)
		return
	}

	if key, err := draftDomain.NewKey(visitorID, target); err == nil {
		autosaver.Cancel(autosaveKey(key))
	}
	sendReceipt(r, res.Form.FormName, stepRes.Confirmation)

	q := url.Values{"sid": {stepRes.Confirmation.SubmissionID}, "message": {stepRes.Confirmation.Message}}
	http.Redirect(w, r, "/register/success?"+q.Encode(), http.StatusSeeOther)
}

// sendReceipt emails the registration receipt. Best effort: the
// registration already succeeded, a failed email only logs.
func sendReceipt(r *http.Request, featureName string, conf registration.Confirmation) {
	if services.Email == nil || services.EmailFrom == "" {
		return
	}
	p, err := services.Backend.GetMyProfile(r.Context())
	if err != nil {
		slog.Warn("receipt_profile_lookup_failed", "error", err.Error())
		return
	}
	err = orchestrators.ExecuteSendReceipt(r.Context(), orchestrators.SendReceiptInput{
		Recipient:    p.Email,
		FeatureName:  featureName,
		Confirmation: conf,
	}, orchestrators.SendReceiptDeps{Sender: services.Email, From: services.EmailFrom})
	if err != nil {
		slog.Warn("receipt_send_failed", "error", err.Error())
	}
}

// handleWizardBack moves to the previous step.
func handleWizardBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	target, err := parseTarget(r.PostForm.Get)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	res, err := startWizard(r, target)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !res.HasForm {
		http.Redirect(w, r, featurePage(target), http.StatusSeeOther)
		return
	}

	err = orchestrators.ExecuteStepBack(r.Context(), orchestrators.StepBackInput{
		VisitorID: middleware.VisitorID(r.Context()),
		Target:    target,
		Session:   res.Session,
	}, orchestrators.StepBackDeps{Drafts: services.Drafts, Now: timeNow})
	if errors.Is(err, wizard.ErrAtFirstStep) {
		// Leaving the wizard. The draft stays, so returning resumes.
		http.Redirect(w, r, featurePage(target), http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/register?"+targetQuery(target), http.StatusSeeOther)
}

// featurePage maps a target back to its browse page for wizard exits.
func featurePage(target registration.Target) string {
	switch target.Type {
	case registration.FeatureActivity:
		return fmt.Sprintf("/activity?id=%d", target.FeatureID)
	case registration.FeatureClub:
		return fmt.Sprintf("/club?id=%d", target.FeatureID)
	}
	return "/forms"
}

type autosavePayload struct {
	FeatureType string         `json:"feature_type"`
	FeatureID   int64          `json:"feature_id"`
	CurrentStep int            `json:"current_step"`
	Values      map[string]any `json:"values"`
}

// autosaveKey scopes debounced draft writes exactly like the draft rows they
// coalesce into.
func autosaveKey(key draftDomain.Key) string {
	return key.VisitorID + "|" + key.StorageKey()
}

// handleWizardAutosave accepts JSON value snapshots from in-progress steps.
// Writes are debounced per visitor and feature so rapid edits collapse into
// one draft write; the response only acknowledges scheduling.
func handleWizardAutosave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var payload autosavePayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	target := registration.Target{Type: payload.FeatureType, FeatureID: payload.FeatureID}
	visitorID := middleware.VisitorID(r.Context())
	key, err := draftDomain.NewKey(visitorID, target)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := orchestrators.AutosaveDraftInput{
		VisitorID:   visitorID,
		Target:      target,
		Values:      form.ValueRecord(payload.Values),
		CurrentStep: payload.CurrentStep,
	}
	autosaver.Trigger(autosaveKey(key), func() {
		err := orchestrators.ExecuteAutosaveDraft(context.Background(), input,
			orchestrators.AutosaveDraftDeps{Drafts: services.Drafts, Now: timeNow})
		if err != nil {
			slog.Warn("autosave_failed", "error", err.Error())
		}
	})
	w.WriteHeader(http.StatusAccepted)
}

// handleDirectRegistration registers for a feature that has no custom form.
func handleDirectRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	target, err := parseTarget(r.PostForm.Get)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	// Independent forms always carry a form; there is no confirm-only path.
	if target.Type == registration.FeatureIndependent {
		http.NotFound(w, r)
		return
	}

	conf, err := orchestrators.ExecuteDirectRegistration(r.Context(), orchestrators.DirectRegistrationInput{
		VisitorID: middleware.VisitorID(r.Context()),
		Target:    target,
	}, orchestrators.DirectRegistrationDeps{
		Drafts:     services.Drafts,
		Registrar:  services.Backend,
		Now:        timeNow,
		GenerateID: generateID,
	})
	if errors.Is(err, registration.ErrAlreadyRegistered) {
		renderTemplate(w, r, "wizard_success.html", map[string]any{
			"Title":   "Sudah Terdaftar",
			"Message": registration.ErrAlreadyRegistered.Error(),
		})
		return
	}
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}

	q := url.Values{"sid": {conf.SubmissionID}, "message": {conf.Message}}
	http.Redirect(w, r, "/register/success?"+q.Encode(), http.StatusSeeOther)
}

// handleWizardSuccess renders the post-submission confirmation.
func handleWizardSuccess(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		message = "Pendaftaran Anda telah kami terima."
	}
	renderTemplate(w, r, "wizard_success.html", map[string]any{
		"Title":        "Pendaftaran Berhasil",
		"Message":      message,
		"SubmissionID": r.URL.Query().Get("sid"),
	})
}

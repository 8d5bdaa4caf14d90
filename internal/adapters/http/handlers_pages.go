package web

import (
	"errors"
	"net/http"

	"portal/internal/adapters/backend"
	"portal/internal/application/orchestrators"
	"portal/internal/domain/counseling"
	"portal/internal/domain/form"
	"portal/internal/domain/leaderboard"
	"portal/internal/domain/profile"
	"portal/internal/domain/registration"
)

// handleHome shows the landing page with the open activities.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	acts, err := services.Backend.ListActivities(r.Context(), backend.ActivityQuery{})
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	open := acts[:0]
	for _, a := range acts {
		if a.AcceptsRegistration() {
			open = append(open, a)
		}
	}
	if len(open) > 6 {
		open = open[:6]
	}
	renderTemplate(w, r, "home.html", map[string]any{
		"Title":      "Portal Kemahasiswaan",
		"Activities": open,
	})
}

// handleActivityList shows the browsable activity catalog.
func handleActivityList(w http.ResponseWriter, r *http.Request) {
	query := backend.ActivityQuery{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	acts, err := services.Backend.ListActivities(r.Context(), query)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "activity_list.html", map[string]any{
		"Title":      "Kegiatan",
		"Activities": acts,
		"Search":     query.Search,
		"Category":   query.Category,
	})
}

// handleActivityDetail shows one activity with its register button.
func handleActivityDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	act, found, err := services.Backend.GetActivity(r.Context(), id)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	renderTemplate(w, r, "activity_detail.html", map[string]any{
		"Title":    act.Name,
		"Activity": act,
		"TargetQuery": targetQuery(registration.Target{
			Type: registration.FeatureActivity, FeatureID: act.ID,
		}),
	})
}

// handleClubList shows the club catalog.
func handleClubList(w http.ResponseWriter, r *http.Request) {
	clubs, err := services.Backend.ListClubs(r.Context())
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "club_list.html", map[string]any{
		"Title": "Komunitas",
		"Clubs": clubs,
	})
}

// handleClubDetail shows one club with its join button.
func handleClubDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, found, err := services.Backend.GetClub(r.Context(), id)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	renderTemplate(w, r, "club_detail.html", map[string]any{
		"Title": c.Name,
		"Club":  c,
		"TargetQuery": targetQuery(registration.Target{
			Type: registration.FeatureClub, FeatureID: c.ID,
		}),
	})
}

// handleIndependentFormList lists the standalone forms (surveys,
// applications not attached to an activity or club).
func handleIndependentFormList(w http.ResponseWriter, r *http.Request) {
	forms, err := services.Backend.ListIndependentForms(r.Context())
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	type formView struct {
		Form        backend.CustomForm
		TargetQuery string
	}
	views := make([]formView, 0, len(forms))
	for _, f := range forms {
		views = append(views, formView{
			Form: f,
			TargetQuery: targetQuery(registration.Target{
				Type: registration.FeatureIndependent, FeatureID: f.FeatureID,
			}),
		})
	}
	renderTemplate(w, r, "form_list.html", map[string]any{
		"Title": "Formulir",
		"Forms": views,
	})
}

// handleLeaderboard shows the scoring leaderboard for a period.
func handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := leaderboard.NormalizePeriod(r.URL.Query().Get("period"))
	board, err := services.Backend.GetLeaderboard(r.Context(), period)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "leaderboard.html", map[string]any{
		"Title":   "Papan Peringkat",
		"Board":   board,
		"Periods": leaderboard.ValidPeriods,
	})
}

// handleCertificateList lists the member's certificates.
func handleCertificateList(w http.ResponseWriter, r *http.Request) {
	certs, err := services.Backend.ListCertificates(r.Context())
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "certificate_list.html", map[string]any{
		"Title":        "Sertifikat",
		"Certificates": certs,
	})
}

// handleCertificatePrint shows the printable view of one certificate.
func handleCertificatePrint(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	cert, found, err := services.Backend.GetCertificate(r.Context(), id)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	renderTemplate(w, r, "certificate_print.html", map[string]any{
		"Title":       cert.Title,
		"Certificate": cert,
	})
}

// handleCounseling shows the counseling request form and accepts requests.
func handleCounseling(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "counseling.html", map[string]any{
			"Title": "Konseling Sebaya",
			"Modes": counseling.ValidModes,
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	input := orchestrators.RequestCounselingInput{
		Topic:         r.PostForm.Get("topic"),
		Mode:          r.PostForm.Get("mode"),
		PreferredDate: r.PostForm.Get("preferred_date"),
		Notes:         r.PostForm.Get("notes"),
	}
	id, err := orchestrators.ExecuteRequestCounseling(r.Context(), input,
		orchestrators.RequestCounselingDeps{Counseling: services.Backend})
	if err != nil {
		if isCounselingInputError(err) {
			renderTemplate(w, r, "counseling.html", map[string]any{
				"Title": "Konseling Sebaya",
				"Modes": counseling.ValidModes,
				"Error": err.Error(),
				"Input": input,
			})
			return
		}
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "counseling.html", map[string]any{
		"Title":     "Konseling Sebaya",
		"Modes":     counseling.ValidModes,
		"Reference": id,
	})
}

func isCounselingInputError(err error) bool {
	return errors.Is(err, counseling.ErrEmptyTopic) ||
		errors.Is(err, counseling.ErrInvalidMode) ||
		errors.Is(err, counseling.ErrMissingSchedule) ||
		errors.Is(err, orchestrators.ErrInvalidPreferredDate)
}

// handleProfile shows and edits the member profile.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		p, err := services.Backend.GetMyProfile(r.Context())
		if err != nil {
			renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
			return
		}
		renderTemplate(w, r, "profile.html", map[string]any{
			"Title":   "Profil Saya",
			"Profile": p,
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	values := form.ValueRecord{}
	for _, key := range []string{"full_name", "email", "phone", "student_number", "institution", "major", "birth_date", "gender"} {
		if r.PostForm.Has(key) {
			values[key] = r.PostForm.Get(key)
		}
	}
	updated, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		Values: values,
	}, orchestrators.UpdateProfileDeps{Profiles: services.Backend})
	if err != nil {
		if errors.Is(err, profile.ErrEmptyName) || errors.Is(err, profile.ErrEmptyEmail) {
			current, gerr := services.Backend.GetMyProfile(r.Context())
			if gerr != nil {
				renderError(w, r, http.StatusBadGateway, backend.UserMessage(gerr))
				return
			}
			renderTemplate(w, r, "profile.html", map[string]any{
				"Title":   "Profil Saya",
				"Profile": current,
				"Error":   err.Error(),
			})
			return
		}
		renderError(w, r, http.StatusBadGateway, backend.UserMessage(err))
		return
	}
	renderTemplate(w, r, "profile.html", map[string]any{
		"Title":   "Profil Saya",
		"Profile": updated,
		"Saved":   true,
	})
}

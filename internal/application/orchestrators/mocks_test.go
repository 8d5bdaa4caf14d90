package orchestrators

import (
	"context"
	"errors"
	"time"

	"portal/internal/adapters/backend"
	"portal/internal/adapters/email"
	"portal/internal/domain/counseling"
	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/profile"
	"portal/internal/domain/registration"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "req-001" }

// mockDraftStore implements DraftStore over a map keyed by the storage key.
type mockDraftStore struct {
	drafts   map[string]draftDomain.Draft
	saveErr  error
	clearErr error
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{drafts: make(map[string]draftDomain.Draft)}
}

func (m *mockDraftStore) mapKey(key draftDomain.Key) string {
	return key.VisitorID + "|" + key.StorageKey()
}

func (m *mockDraftStore) Load(_ context.Context, key draftDomain.Key, now time.Time) (draftDomain.Draft, bool, error) {
	d, ok := m.drafts[m.mapKey(key)]
	if !ok || d.Expired(now) {
		return draftDomain.Draft{}, false, nil
	}
	return d, true, nil
}

func (m *mockDraftStore) Save(_ context.Context, d draftDomain.Draft) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.drafts[m.mapKey(d.Key)] = d
	return nil
}

func (m *mockDraftStore) Clear(_ context.Context, key draftDomain.Key) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.drafts, m.mapKey(key))
	return nil
}

// mockFormFetcher implements FormFetcher with a single canned form and
// records which lookup was used.
type mockFormFetcher struct {
	form       backend.CustomForm
	hasForm    bool
	err        error
	byFeature  int
	byFormID   int
	lastFormID int64
}

func (m *mockFormFetcher) FetchCustomForm(_ context.Context, _ registration.Target) (backend.CustomForm, bool, error) {
	m.byFeature++
	if m.err != nil {
		return backend.CustomForm{}, false, m.err
	}
	return m.form, m.hasForm, nil
}

func (m *mockFormFetcher) GetIndependentForm(_ context.Context, formID int64) (backend.CustomForm, bool, error) {
	m.byFormID++
	m.lastFormID = formID
	if m.err != nil {
		return backend.CustomForm{}, false, m.err
	}
	return m.form, m.hasForm, nil
}

// mockProfileService implements ProfileService.
type mockProfileService struct {
	profile   profile.Profile
	getErr    error
	updates   []form.ValueRecord
	updateErr error
}

func (m *mockProfileService) GetMyProfile(_ context.Context) (profile.Profile, error) {
	if m.getErr != nil {
		return profile.Profile{}, m.getErr
	}
	return m.profile, nil
}

func (m *mockProfileService) UpdateProfile(_ context.Context, rec form.ValueRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, rec.Clone())
	return nil
}

// mockRegistrar implements Registrar, recording each submission.
type mockRegistrar struct {
	submissions  []registration.Submission
	confirmation registration.Confirmation
	err          error
}

func (m *mockRegistrar) Register(_ context.Context, sub registration.Submission) (registration.Confirmation, error) {
	if m.err != nil {
		return registration.Confirmation{}, m.err
	}
	m.submissions = append(m.submissions, sub)
	return m.confirmation, nil
}

// mockCounselingService implements CounselingService.
type mockCounselingService struct {
	requests []counseling.Request
	id       string
	err      error
}

func (m *mockCounselingService) RequestCounseling(_ context.Context, req counseling.Request) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.requests = append(m.requests, req)
	return m.id, nil
}

// mockSender implements email.Sender, recording sent requests.
type mockSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-001", SentAt: fixedTime}, nil
}

var errBoom = errors.New("boom")

// twoSectionSchema builds a profile section plus one custom section with a
// required reason field.
func twoSectionSchema() form.Schema {
	return form.Schema{
		Sections: []form.Section{
			{
				Name: "Data Diri",
				Fields: []form.Field{
					{Key: "full_name", Label: "Nama Lengkap", Kind: form.FieldKindText, Required: true},
					{Key: "email", Label: "Email", Kind: form.FieldKindText, Required: true},
				},
			},
			{
				Name: "Motivasi",
				Fields: []form.Field{
					{Key: "reason", Label: "Alasan", Kind: form.FieldKindTextarea, Required: true},
				},
			},
		},
	}
}

func activityTarget() registration.Target {
	return registration.Target{Type: registration.FeatureActivity, FeatureID: 7}
}

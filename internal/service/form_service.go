package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"formpilot/internal/cache"
	"formpilot/internal/model"
	"formpilot/internal/repository"
)

var (
	ErrFormNotFound   = errors.New("form not found")
	ErrNotOwner       = errors.New("not the form owner")
	ErrPrivateForm    = errors.New("form is private")
	ErrDuplicateTitle = errors.New("a form with this title already exists")
	ErrFormLimit      = errors.New("free tier limit: 3 forms")
	ErrInvalidForm    = errors.New("invalid form data")
	ErrSpamBlocked    = errors.New("submission blocked due to high spam score")
)

const (
	freeTierFormLimit  = 3
	spamBlockThreshold = 0.8
)

// FormService handles form authoring, public fetching, submission and export
type FormService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	userRepo     repository.UserRepo
	formCache    cache.FormCache
	assistant    *AssistantService
}

// NewFormService creates a new form service
func NewFormService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	userRepo repository.UserRepo,
	formCache cache.FormCache,
	assistant *AssistantService,
) *FormService {
	return &FormService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
		formCache:    formCache,
		assistant:    assistant,
	}
}

// Create stores a new form for the owner. Titles are trimmed and must
// be unique per owner; free-tier owners are capped at three forms.
func (s *FormService) Create(ctx context.Context, ownerID string, form *model.Form) (string, error) {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" || form.Questions == nil {
		return "", ErrInvalidForm
	}

	existing, err := s.formRepo.FindByOwnerAndTitle(ctx, ownerID, form.Title)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrDuplicateTitle
	}

	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if user != nil && user.FormsCreated >= freeTierFormLimit {
		return "", ErrFormLimit
	}

	form.OwnerID = ownerID
	if form.Theme.PrimaryColor == "" {
		form.Theme.PrimaryColor = model.DefaultPrimaryColor
	}

	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return "", err
	}
	form.ID = id

	if err := s.userRepo.IncrementFormsCreated(ctx, ownerID); err != nil {
		log.Printf("failed to update form count for user %s: %v", ownerID, err)
	}
	return id, nil
}

// Get fetches a form. Public forms are served to anyone (and cached);
// private forms only to their owner.
func (s *FormService) Get(ctx context.Context, formID, requesterID string) (*model.Form, error) {
	if cached, err := s.formCache.Get(ctx, formID); err == nil && cached != nil {
		return cached, nil
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	if form.IsPublic {
		if err := s.formCache.Set(ctx, form); err != nil {
			log.Printf("form cache write failed for %s: %v", formID, err)
		}
		return form, nil
	}

	if requesterID == "" {
		return nil, ErrPrivateForm
	}
	if form.OwnerID != requesterID {
		return nil, ErrNotOwner
	}
	return form, nil
}

// ListByOwner returns all forms owned by the user
func (s *FormService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	return s.formRepo.GetByOwnerID(ctx, ownerID)
}

// Update replaces an owned form's content and invalidates its cache entry
func (s *FormService) Update(ctx context.Context, ownerID string, form *model.Form) error {
	existing, err := s.formRepo.GetByID(ctx, form.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrFormNotFound
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}

	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return ErrInvalidForm
	}
	if form.Title != existing.Title {
		dup, err := s.formRepo.FindByOwnerAndTitle(ctx, ownerID, form.Title)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrDuplicateTitle
		}
	}

	form.OwnerID = ownerID
	if err := s.formRepo.Update(ctx, form); err != nil {
		return err
	}

	if err := s.formCache.Delete(ctx, form.ID); err != nil {
		log.Printf("form cache invalidation failed for %s: %v", form.ID, err)
	}
	return nil
}

// Delete removes an owned form, its responses and its cache entry
func (s *FormService) Delete(ctx context.Context, ownerID, formID string) error {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	if form == nil {
		return ErrFormNotFound
	}
	if form.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.formRepo.Delete(ctx, formID); err != nil {
		return err
	}
	if _, err := s.responseRepo.DeleteByFormID(ctx, formID); err != nil {
		log.Printf("failed to delete responses for form %s: %v", formID, err)
	}
	if err := s.formCache.Delete(ctx, formID); err != nil {
		log.Printf("form cache invalidation failed for %s: %v", formID, err)
	}
	return nil
}

// Submit stores a public-form submission. The submission is spam-scored
// first and rejected above the block threshold; owner statistics are
// updated best-effort afterwards.
func (s *FormService) Submit(ctx context.Context, formID string, data map[string]interface{}, ip string) (*model.Response, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if !form.IsPublic {
		return nil, ErrPrivateForm
	}

	spamScore := s.assistant.DetectSpam(ctx, data)
	if spamScore > spamBlockThreshold {
		return nil, ErrSpamBlocked
	}

	response := &model.Response{
		FormID:    formID,
		OwnerID:   form.OwnerID,
		Data:      data,
		IP:        ip,
		SpamScore: spamScore,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddResponseStats(ctx, form.OwnerID, uploadBytes(data)); err != nil {
		log.Printf("failed to update stats for user %s: %v", form.OwnerID, err)
	}
	return response, nil
}

// Responses returns all submissions for an owned form
func (s *FormService) Responses(ctx context.Context, formID, requesterID string) ([]*model.Response, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if form.OwnerID != requesterID {
		return nil, ErrNotOwner
	}
	return s.responseRepo.GetByFormID(ctx, formID)
}

// ExportCSV writes an owned form's responses as CSV: one column per
// question label in form order, plus the submission timestamp.
func (s *FormService) ExportCSV(ctx context.Context, formID, requesterID string, w io.Writer) error {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	if form == nil {
		return ErrFormNotFound
	}
	if form.OwnerID != requesterID {
		return ErrNotOwner
	}

	responses, err := s.responseRepo.GetByFormID(ctx, formID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := make([]string, 0, len(form.Questions)+1)
	for _, q := range form.Questions {
		header = append(header, q.Label)
	}
	header = append(header, "submittedAt")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range responses {
		row := make([]string, 0, len(header))
		for _, q := range form.Questions {
			row = append(row, answerString(r.Data[q.Label]))
		}
		row = append(row, r.CreatedAt.Format("2006-01-02 15:04:05"))
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// answerString flattens a submitted answer value for CSV output
func answerString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, answerString(item))
		}
		return strings.Join(parts, "; ")
	case map[string]interface{}:
		// File answers export as their file name
		if name, ok := val["name"].(string); ok {
			return name
		}
		return fmt.Sprint(val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	default:
		return fmt.Sprint(val)
	}
}

// uploadBytes sums the declared sizes of file answers in a submission
func uploadBytes(data map[string]interface{}) int64 {
	var total int64
	for _, v := range data {
		if file, ok := v.(map[string]interface{}); ok {
			if size, ok := file["size"].(float64); ok {
				total += int64(size)
			}
		}
	}
	return total
}

package quotes

import (
	"context"
	"strconv"
	"time"

	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

// ClientMeta carries request attribution recorded alongside a submission.
type ClientMeta struct {
	IP        string
	UserAgent string
}

type Service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
	Now    func() time.Time
}

func NewService(params ServiceParams) *Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: params.Repo,
		logg: params.Logger,
		now:  now,
	}
}

// Submit validates the full submission, assigns server-side fields and
// persists the record plus its summary log row. The record file is the
// source of truth. A log append failure is logged but does not fail the
// submission.
func (s *Service) Submit(ctx context.Context, submission Submission, meta ClientMeta) (*Record, error) {
	if fields := ValidateSubmission(submission); fields != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote submission failed validation").
			WithDetails(fields)
	}

	submittedAt := s.now().UTC()
	record := &Record{
		ID:          strconv.FormatInt(submittedAt.UnixMilli(), 10),
		Submission:  submission,
		SubmittedAt: submittedAt,
		Status:      StatusNew,
		IPAddress:   meta.IP,
		UserAgent:   meta.UserAgent,
	}

	if err := s.repo.Save(record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist quote submission")
	}

	entry := LogEntry{
		ID:          record.ID,
		Name:        submission.FirstName + " " + submission.LastName,
		Email:       submission.Email,
		Phone:       submission.Phone,
		ProjectType: submission.ProjectType,
		SubmittedAt: submittedAt,
		Status:      record.Status,
	}
	if err := s.repo.AppendLog(entry); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "submission_id", record.ID),
			"failed to append submissions log", err)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"submission_id": record.ID,
		"project_type":  submission.ProjectType,
	}), "quote submission stored")

	return record, nil
}

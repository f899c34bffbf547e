package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/domain"
)

type listRepo struct {
	emails []string
	err    error
}

func (r *listRepo) ConfirmedEmails(ctx context.Context) ([]string, error) {
	return r.emails, r.err
}

type recordingSender struct {
	sent    []string
	failOn  string
	sendErr error
}

func (s *recordingSender) Send(ctx context.Context, to domain.Email, subject, htmlBody, textBody string) error {
	if to.String() == s.failOn {
		return s.sendErr
	}
	s.sent = append(s.sent, to.String())
	return nil
}

func testIssue() Issue {
	return Issue{
		Title:   "Issue #1",
		Content: IssueContent{HTML: "<p>hello</p>", Text: "hello"},
	}
}

func TestPublishDeliversToAllConfirmed(t *testing.T) {
	repo := &listRepo{emails: []string{"a@b.com", "c@d.com"}}
	sender := &recordingSender{}
	svc := NewService(repo, sender)

	require.NoError(t, svc.Publish(context.Background(), testIssue()))
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, sender.sent)
}

func TestPublishSkipsInvalidStoredEmail(t *testing.T) {
	repo := &listRepo{emails: []string{"a@b.com", "not-an-email", "c@d.com"}}
	sender := &recordingSender{}
	svc := NewService(repo, sender)

	require.NoError(t, svc.Publish(context.Background(), testIssue()))
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, sender.sent)
}

func TestPublishAbortsOnFirstDeliveryFailure(t *testing.T) {
	repo := &listRepo{emails: []string{"a@b.com", "c@d.com", "e@f.com"}}
	sender := &recordingSender{failOn: "c@d.com", sendErr: errors.New("bounce")}
	svc := NewService(repo, sender)

	err := svc.Publish(context.Background(), testIssue())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver issue")
	// Raw recipient addresses stay out of error messages.
	assert.NotContains(t, err.Error(), "c@d.com")
	assert.Equal(t, []string{"a@b.com"}, sender.sent)
}

func TestPublishRepositoryError(t *testing.T) {
	svc := NewService(&listRepo{err: errors.New("db gone")}, &recordingSender{})

	err := svc.Publish(context.Background(), testIssue())
	assert.ErrorContains(t, err, "fetch confirmed subscribers")
}

func TestIssueValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Issue)
		wantErr string
	}{
		{"complete", func(i *Issue) {}, ""},
		{"missing title", func(i *Issue) { i.Title = "" }, "title"},
		{"missing html", func(i *Issue) { i.Content.HTML = "" }, "content.html"},
		{"missing text", func(i *Issue) { i.Content.Text = "" }, "content.text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issue := testIssue()
			tc.mutate(&issue)
			err := issue.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

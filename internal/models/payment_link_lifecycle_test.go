package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// LifecycleTestSuite walks a payment link through its full lifecycle the way
// a merchant and a payer would between them.
type LifecycleTestSuite struct {
	suite.Suite
	link *PaymentLink
}

func (s *LifecycleTestSuite) SetupTest() {
	reference := "PL-LIFECYCLE-000001"
	s.link = NewPaymentLink(
		uuid.New(),
		reference,
		"http://localhost:8080/pay/"+reference,
		100,
		"USD",
		time.Now().Add(time.Hour),
		"",
		[]uuid.UUID{uuid.New()},
		time.Now(),
	)
}

func (s *LifecycleTestSuite) TestHappyPath() {
	s.Equal(LinkStatusActive, s.link.Status)
	s.Len(s.link.Timeline, 1)

	proof := PaymentProof{URL: "./uploads/proof.png", FileName: "proof.png", UploadedAt: time.Now()}
	s.Require().NoError(s.link.SubmitProof(proof, "First Bank", time.Now()))
	s.Equal(LinkStatusPending, s.link.Status)
	s.Len(s.link.Uploads, 1)
	s.Len(s.link.Timeline, 2)

	s.Require().NoError(s.link.Complete(time.Now()))
	s.Equal(LinkStatusCompleted, s.link.Status)

	err := s.link.SubmitProof(proof, "First Bank", time.Now())
	s.Require().Error(err)
	s.IsType(&StateConflictError{}, err)
	s.Len(s.link.Uploads, 1)
}

func (s *LifecycleTestSuite) TestExpiryPath() {
	s.link.ExpiresAt = time.Now().Add(-time.Minute)

	s.True(s.link.EvaluateExpiry(time.Now()))
	s.Equal(LinkStatusExpired, s.link.Status)
	s.Len(s.link.Timeline, 2)

	s.False(s.link.CanEdit())

	err := s.link.Complete(time.Now())
	s.Require().Error(err)
	s.IsType(&StateConflictError{}, err)
}

func (s *LifecycleTestSuite) TestCancelPath() {
	s.Require().NoError(s.link.Cancel(time.Now()))
	s.Equal(LinkStatusCancelled, s.link.Status)
	s.False(s.link.CanEdit())

	proof := PaymentProof{URL: "./uploads/proof.png", FileName: "proof.png", UploadedAt: time.Now()}
	err := s.link.SubmitProof(proof, "First Bank", time.Now())
	s.Require().Error(err)
	s.Empty(s.link.Uploads)
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

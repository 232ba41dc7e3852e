// Package pipeline runs the listen loop: retrain on the feedback log,
// generate a sequence, play it, record the listener's judgment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/config"
	"github.com/emiliopalmerini/orpheus/internal/playback"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

const likePrompt = "Did you like it?"

// Deps are the collaborators a Service drives. Artifacts and Metrics are
// optional.
type Deps struct {
	Store     ports.FeedbackStore
	Prompter  ports.Prompter
	Player    ports.TonePlayer
	Artifacts ports.ArtifactStorage
	Metrics   ports.MetricsExporter
	Rand      *rand.Rand
}

type Service struct {
	store     ports.FeedbackStore
	prompter  ports.Prompter
	player    ports.TonePlayer
	artifacts ports.ArtifactStorage
	metrics   ports.MetricsExporter
	rng       *rand.Rand

	profile   config.Profile
	vocab     []string
	prior     []float64
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
}

func New(profile config.Profile, deps Deps, logger *slog.Logger) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("%w: a feedback store is required", domain.ErrValidation)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	vocab, err := profile.Vocabulary()
	if err != nil {
		return nil, err
	}
	prior, err := profile.PriorWeights()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	sessionID := uuid.NewString()
	return &Service{
		store:     deps.Store,
		prompter:  deps.Prompter,
		player:    deps.Player,
		artifacts: deps.Artifacts,
		metrics:   deps.Metrics,
		rng:       rng,
		profile:   profile,
		vocab:     vocab,
		prior:     prior,
		sessionID: sessionID,
		logger:    logger.With("session_id", sessionID),
		now:       time.Now,
	}, nil
}

// SessionID identifies this run in exported metrics.
func (s *Service) SessionID() string {
	return s.sessionID
}

// Capture plays seq, asks the listener for a judgment and appends it to the
// log. Nothing is appended when playback or the prompt fails.
func (s *Service) Capture(ctx context.Context, seq domain.Sequence) (domain.FeedbackRecord, error) {
	if s.player == nil || s.prompter == nil {
		return domain.FeedbackRecord{}, fmt.Errorf("%w: capture needs a player and a prompter", domain.ErrValidation)
	}
	tokens, err := seq.Tokens()
	if err != nil {
		return domain.FeedbackRecord{}, err
	}

	start := s.now()
	if err := playback.Play(ctx, seq, s.player); err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("play sequence: %w", err)
	}
	s.logger.Info("measure played",
		"duration", s.now().Sub(start),
		"expected_ms", seq.TotalDurationMs())

	yes, err := s.prompter.AskYesNo(likePrompt)
	if err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("ask for feedback: %w", err)
	}

	rec, err := domain.NewFeedbackRecord(domain.LabelFromAnswer(yes), tokens)
	if err != nil {
		return domain.FeedbackRecord{}, err
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("append feedback: %w", err)
	}

	if s.metrics != nil {
		m := &ports.FeedbackMetrics{SessionID: s.sessionID, Liked: yes, Events: len(tokens)}
		if err := s.metrics.ExportFeedback(ctx, m); err != nil {
			s.logger.Warn("failed to export feedback metrics", "error", err)
		}
	}
	return rec, nil
}

// Listen runs rounds of train, generate and capture. rounds <= 0 keeps going
// until ctx is cancelled. With priorOnly set the model is never trained and
// every sequence comes from the prior.
func (s *Service) Listen(ctx context.Context, rounds int, priorOnly bool) error {
	for round := 1; rounds <= 0 || round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var trained *Trained
		if !priorOnly {
			var err error
			trained, err = s.Train(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrTraining) {
					return fmt.Errorf("round %d: %w (record some feedback with --prior-only first)", round, err)
				}
				return fmt.Errorf("round %d: %w", round, err)
			}
		}

		seq, err := s.Generate(ctx, trained)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		rec, err := s.Capture(ctx, seq)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		s.logger.Info("feedback recorded", "round", round, "label", rec.Label, "tokens", rec.Tokens)
	}
	return nil
}

package graph

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "coursehub/backend/pkg/errors"
)

// ============================================================================
// Learner-to-Content Relationship Operations
//
// Endpoints are MERGEd, so a relationship write never fails because a node
// is missing; it creates it.
// ============================================================================

const (
	// A null $attempts means "one more attempt"; any other value is stored as is.
	queryRegisterPerformance = `
		MERGE (u:User {id: $user_id})
		MERGE (e:Exercise {id: $exercise_id})
		MERGE (u)-[p:PERFORMED]->(e)
		SET p.correct_ratio = $correct_ratio,
		    p.attempts = CASE
		        WHEN $attempts IS NULL THEN coalesce(p.attempts, 0) + 1
		        ELSE $attempts
		    END,
		    p.performed_at = datetime($performed_at)
	`

	querySetDifficulty = `
		MERGE (u:User {id: $user_id})
		MERGE (s:Skill {id: $skill_id})
		MERGE (u)-[d:HAS_DIFFICULTY]->(s)
		SET d.error_score = $error_score,
		    d.updated_at = datetime($now)
	`

	querySetUserError = `
		MERGE (u:User {id: $user_id})
		MERGE (et:ErrorType {id: $error_id})
		MERGE (u)-[m:MAKES_ERROR]->(et)
		SET m.frequency = $frequency,
		    m.updated_at = datetime($now)
	`

	querySetUserInterest = `
		MERGE (u:User {id: $user_id})
		MERGE (i:Interest {id: $interest_id})
		MERGE (u)-[w:INTERESTED_IN]->(i)
		SET w.weight = $weight,
		    w.updated_at = datetime($now)
	`

	queryTagExerciseInterest = `
		MERGE (e:Exercise {id: $exercise_id})
		MERGE (t:Interest {id: $tag_id})
		MERGE (e)-[:TAGGED_AS]->(t)
	`

	queryTagExerciseErrorType = `
		MERGE (e:Exercise {id: $exercise_id})
		MERGE (t:ErrorType {id: $tag_id})
		MERGE (e)-[:TAGGED_AS]->(t)
	`

	// One edge per pair: a newer recommendation replaces the previous one.
	queryLogRecommendation = `
		MERGE (u:User {id: $user_id})
		MERGE (e:Exercise {id: $exercise_id})
		MERGE (u)-[r:RECOMMENDED]->(e)
		SET r.strategy = $strategy,
		    r.accepted = $accepted,
		    r.timestamp = datetime($timestamp)
	`
)

var tagQueries = map[TagKind]string{
	TagInterest:  queryTagExerciseInterest,
	TagErrorType: queryTagExerciseErrorType,
}

// RegisterPerformance records a learner's result on an exercise. The correct
// ratio always overwrites; attempts either increments or is set exactly,
// depending on p.Attempts.
func (r *Repository) RegisterPerformance(ctx context.Context, p Performance) error {
	if err := validateInput(p); err != nil {
		return err
	}
	var attempts interface{}
	if n, exact := p.Attempts.Exact(); exact {
		if n < 0 {
			return apperrors.NewValidation("attempts", "must not be negative")
		}
		attempts = n
	}
	performedAt := p.PerformedAt
	if performedAt.IsZero() {
		performedAt = r.now()
	}

	err := r.run(ctx, "register_performance", queryRegisterPerformance, map[string]interface{}{
		"user_id":       p.UserID,
		"exercise_id":   p.ExerciseID,
		"correct_ratio": p.CorrectRatio,
		"attempts":      attempts,
		"performed_at":  performedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Performance registered",
		zap.String("user_id", p.UserID),
		zap.String("exercise_id", p.ExerciseID),
		zap.Float64("correct_ratio", p.CorrectRatio),
	)
	return nil
}

// SetDifficulty overwrites the learner's error score on a skill
func (r *Repository) SetDifficulty(ctx context.Context, d Difficulty) error {
	if err := validateInput(d); err != nil {
		return err
	}
	return r.run(ctx, "set_difficulty", querySetDifficulty, map[string]interface{}{
		"user_id":     d.UserID,
		"skill_id":    d.SkillID,
		"error_score": d.ErrorScore,
		"now":         r.timestamp(),
	})
}

// SetUserError overwrites how often the learner makes a kind of mistake
func (r *Repository) SetUserError(ctx context.Context, e UserError) error {
	if err := validateInput(e); err != nil {
		return err
	}
	return r.run(ctx, "set_user_error", querySetUserError, map[string]interface{}{
		"user_id":   e.UserID,
		"error_id":  e.ErrorID,
		"frequency": e.Frequency,
		"now":       r.timestamp(),
	})
}

// SetUserInterest overwrites the weight of a learner's interest
func (r *Repository) SetUserInterest(ctx context.Context, i UserInterest) error {
	if err := validateInput(i); err != nil {
		return err
	}
	return r.run(ctx, "set_user_interest", querySetUserInterest, map[string]interface{}{
		"user_id":     i.UserID,
		"interest_id": i.InterestID,
		"weight":      i.Weight,
		"now":         r.timestamp(),
	})
}

// TagExercise links an exercise to an interest or an error type
func (r *Repository) TagExercise(ctx context.Context, exerciseID string, tag Tag) error {
	if err := requireNodeID("exercise_id", exerciseID); err != nil {
		return err
	}
	if err := validateInput(tag); err != nil {
		return err
	}
	return r.run(ctx, "tag_exercise", tagQueries[tag.Kind], map[string]interface{}{
		"exercise_id": exerciseID,
		"tag_id":      tag.ID,
	})
}

// LogRecommendation stores the latest recommendation of an exercise to a learner
func (r *Repository) LogRecommendation(ctx context.Context, rec Recommendation) error {
	if err := validateInput(rec); err != nil {
		return err
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}
	return r.run(ctx, "log_recommendation", queryLogRecommendation, map[string]interface{}{
		"user_id":     rec.UserID,
		"exercise_id": rec.ExerciseID,
		"strategy":    rec.Strategy,
		"accepted":    optional(rec.Accepted),
		"timestamp":   ts.UTC().Format(time.RFC3339Nano),
	})
}

package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "coursehub/backend/pkg/errors"
)

// ============================================================================
// Similarity and Progress Operations
// ============================================================================

const (
	querySetSimilarityPairs = `
		UNWIND $pairs AS pair
		MERGE (a:User {id: pair.user_id})
		MERGE (b:User {id: pair.other_user_id})
		MERGE (a)-[s:SIMILAR_TO]->(b)
		SET s.similarity_score = pair.similarity_score,
		    s.metric = pair.metric,
		    s.updated_at = datetime($now)
	`

	queryRegisterProgress = `
		MERGE (u:User {id: $user_id})
		MERGE (c:Course {id: $course_id})
		MERGE (u)-[r:COMPLETED]->(c)
		SET r.level = coalesce($level, r.level),
		    r.created_at = coalesce(r.created_at, datetime($now))
	`
)

// SetSimilarityPairs overwrites the similarity between each pair of learners
// in one statement. An empty batch is a no-op.
func (r *Repository) SetSimilarityPairs(ctx context.Context, pairs []SimilarityPair) error {
	if len(pairs) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(pairs))
	for i, p := range pairs {
		if err := validateInput(p); err != nil {
			if verr, ok := err.(*apperrors.ErrValidation); ok {
				return apperrors.NewValidation(fmt.Sprintf("pairs[%d].%s", i, verr.Field), verr.Reason)
			}
			return err
		}
		rows = append(rows, map[string]interface{}{
			"user_id":          p.UserID,
			"other_user_id":    p.OtherUserID,
			"similarity_score": p.Score,
			"metric":           optionalString(p.Metric),
		})
	}

	err := r.run(ctx, "set_similarity_pairs", querySetSimilarityPairs, map[string]interface{}{
		"pairs": rows,
		"now":   r.timestamp(),
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Similarity pairs stored", zap.Int("pairs", len(rows)))
	return nil
}

// RegisterProgress records that a learner completed a course
func (r *Repository) RegisterProgress(ctx context.Context, p Progress) error {
	if err := validateInput(p); err != nil {
		return err
	}
	return r.run(ctx, "register_progress", queryRegisterProgress, map[string]interface{}{
		"user_id":   p.UserID,
		"course_id": p.CourseID,
		"level":     optional(p.Level),
		"now":       r.timestamp(),
	})
}

package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "coursehub/backend/pkg/errors"
)

// ============================================================================
// Node Operations
//
// Each upsert MERGEs by id and then overwrites only the properties the caller
// supplied: coalesce($param, n.prop) keeps the stored value for a null param.
// ============================================================================

const (
	queryUpsertUser = `
		MERGE (u:User {id: $id})
		SET u.primary_language = coalesce($primary_language, u.primary_language),
		    u.current_level = coalesce($current_level, u.current_level),
		    u.streak = coalesce($streak, u.streak)
	`

	queryUpsertExercise = `
		MERGE (e:Exercise {id: $id})
		SET e.type = coalesce($type, e.type),
		    e.difficulty = coalesce($difficulty, e.difficulty),
		    e.language = coalesce($language, e.language)
	`

	queryUpsertSkill = `
		MERGE (s:Skill {id: $id})
		SET s.name = coalesce($name, s.name),
		    s.category = coalesce($category, s.category),
		    s.level = coalesce($level, s.level)
	`

	queryUpsertInterest = `
		MERGE (i:Interest {id: $id})
		SET i.name = coalesce($name, i.name),
		    i.category = coalesce($category, i.category)
	`

	queryUpsertErrorType = `
		MERGE (et:ErrorType {id: $id})
		SET et.description = coalesce($description, et.description),
		    et.category = coalesce($category, et.category)
	`

	queryGetUser = `
		MATCH (u:User {id: $id})
		RETURN u.id as id, u.primary_language as primary_language,
		       u.current_level as current_level, u.streak as streak
	`
)

// UpsertUser creates the user if absent and applies the non-nil fields
func (r *Repository) UpsertUser(ctx context.Context, patch UserPatch) error {
	if err := validateInput(patch); err != nil {
		return err
	}
	err := r.run(ctx, "upsert_user", queryUpsertUser, map[string]interface{}{
		"id":               patch.ID,
		"primary_language": optional(patch.PrimaryLanguage),
		"current_level":    optional(patch.CurrentLevel),
		"streak":           optional(patch.Streak),
	})
	if err != nil {
		return err
	}
	r.logger.Debug("User upserted", zap.String("user_id", patch.ID))
	return nil
}

// UpsertExercise creates the exercise if absent and applies the non-nil fields
func (r *Repository) UpsertExercise(ctx context.Context, patch ExercisePatch) error {
	if err := validateInput(patch); err != nil {
		return err
	}
	return r.run(ctx, "upsert_exercise", queryUpsertExercise, map[string]interface{}{
		"id":         patch.ID,
		"type":       optional(patch.Type),
		"difficulty": optional(patch.Difficulty),
		"language":   optional(patch.Language),
	})
}

// UpsertSkill creates the skill if absent and applies the non-nil fields
func (r *Repository) UpsertSkill(ctx context.Context, patch SkillPatch) error {
	if err := validateInput(patch); err != nil {
		return err
	}
	return r.run(ctx, "upsert_skill", queryUpsertSkill, map[string]interface{}{
		"id":       patch.ID,
		"name":     optional(patch.Name),
		"category": optional(patch.Category),
		"level":    optional(patch.Level),
	})
}

// UpsertInterest creates the interest if absent and applies the non-nil fields
func (r *Repository) UpsertInterest(ctx context.Context, patch InterestPatch) error {
	if err := validateInput(patch); err != nil {
		return err
	}
	return r.run(ctx, "upsert_interest", queryUpsertInterest, map[string]interface{}{
		"id":       patch.ID,
		"name":     optional(patch.Name),
		"category": optional(patch.Category),
	})
}

// UpsertErrorType creates the error type if absent and applies the non-nil fields
func (r *Repository) UpsertErrorType(ctx context.Context, patch ErrorTypePatch) error {
	if err := validateInput(patch); err != nil {
		return err
	}
	return r.run(ctx, "upsert_error_type", queryUpsertErrorType, map[string]interface{}{
		"id":          patch.ID,
		"description": optional(patch.Description),
		"category":    optional(patch.Category),
	})
}

// GetUser reads a user node
func (r *Repository) GetUser(ctx context.Context, userID string) (*User, error) {
	if err := requireNodeID("user_id", userID); err != nil {
		return nil, err
	}
	records, err := r.ReadRecords(ctx, "get_user", queryGetUser, map[string]interface{}{"id": userID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFound("user", userID)
	}
	return userFromRecord(records[0]), nil
}

func userFromRecord(record *neo4j.Record) *User {
	return &User{
		ID:              GetStringFromRecord(record, "id"),
		PrimaryLanguage: GetNullableStringFromRecord(record, "primary_language"),
		CurrentLevel:    GetNullableStringFromRecord(record, "current_level"),
		Streak:          GetNullableInt64FromRecord(record, "streak"),
	}
}

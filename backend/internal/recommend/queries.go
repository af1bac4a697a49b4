package recommend

// Every query orders nulls last explicitly so LIMIT keeps the right rows on
// any server version; the result is re-sorted in Go with the same rules.
const (
	queryByDifficulty = `
		MATCH (u:User {id: $user_id})-[d:HAS_DIFFICULTY]->(s:Skill)
		WHERE d.error_score >= $threshold
		MATCH (e:Exercise)-[:EVALUATES]->(s)
		RETURN e.id AS exercise_id,
		       s.id AS skill_id,
		       d.error_score AS error_score,
		       e.difficulty AS exercise_difficulty
		ORDER BY error_score IS NULL, error_score DESC,
		         exercise_difficulty IS NULL, exercise_difficulty ASC,
		         exercise_id ASC
		LIMIT $limit
	`

	queryBySimilarUsers = `
		MATCH (u:User {id: $user_id})-[d:HAS_DIFFICULTY]->(s:Skill)
		WHERE d.error_score >= $difficulty_threshold
		MATCH (u)-[sim:SIMILAR_TO]-(other:User)
		WHERE other <> u AND sim.similarity_score >= $similarity_threshold
		MATCH (other)-[p:PERFORMED]->(e:Exercise)-[:EVALUATES]->(s)
		WHERE p.correct_ratio >= $performance_threshold
		WITH e, s, avg(p.correct_ratio) AS performance, max(sim.similarity_score) AS similarity
		RETURN e.id AS exercise_id,
		       s.id AS skill_id,
		       performance,
		       similarity
		ORDER BY performance IS NULL, performance DESC,
		         similarity IS NULL, similarity DESC,
		         exercise_id ASC
		LIMIT $limit
	`

	queryByErrorsAndInterests = `
		MATCH (u:User {id: $user_id})-[m:MAKES_ERROR]->(et:ErrorType)
		WHERE m.frequency >= $threshold
		MATCH (e:Exercise)-[:TAGGED_AS]->(et)
		OPTIONAL MATCH (e)-[:TAGGED_AS]->(:Interest)<-[w:INTERESTED_IN]-(u)
		WITH e, et, m, max(w.weight) AS interest_weight
		RETURN e.id AS exercise_id,
		       et.id AS error_id,
		       m.frequency AS frequency,
		       interest_weight
		ORDER BY frequency IS NULL, frequency DESC,
		         interest_weight IS NULL, interest_weight DESC,
		         exercise_id ASC
		LIMIT $limit
	`

	queryByInterests = `
		MATCH (u:User {id: $user_id})-[w:INTERESTED_IN]->(i:Interest)
		WHERE w.weight >= $weight_threshold
		MATCH (e:Exercise)-[:TAGGED_AS]->(i)
		MATCH (e)-[:EVALUATES]->(:Skill)<-[d:HAS_DIFFICULTY]-(u)
		WHERE d.error_score >= $min_error_score
		WITH e, i, w, max(d.error_score) AS error_score
		RETURN e.id AS exercise_id,
		       i.id AS interest_id,
		       w.weight AS interest_weight,
		       error_score
		ORDER BY interest_weight IS NULL, interest_weight DESC,
		         error_score IS NULL, error_score DESC,
		         exercise_id ASC
		LIMIT $limit
	`

	// weak skills -> exercises -> learners who did well there -> everything
	// those learners performed
	queryMultiHop = `
		MATCH (u:User {id: $user_id})-[d:HAS_DIFFICULTY]->(s:Skill)
		WHERE d.error_score >= $difficulty_threshold
		MATCH (e1:Exercise)-[:EVALUATES]->(s)
		MATCH (other:User)-[p1:PERFORMED]->(e1)
		WHERE other <> u AND p1.correct_ratio >= $performance_threshold
		WITH other, collect(DISTINCT s.id) AS skills
		MATCH (other)-[p2:PERFORMED]->(e2:Exercise)
		WITH e2,
		     collect(DISTINCT other.id) AS source_users,
		     head(collect(skills[0])) AS related_skill,
		     avg(p2.correct_ratio) AS avg_correct_ratio
		RETURN e2.id AS exercise_id,
		       source_users,
		       related_skill,
		       avg_correct_ratio
		ORDER BY avg_correct_ratio IS NULL, avg_correct_ratio DESC, exercise_id ASC
		LIMIT $limit
	`

	queryRecommendCourses = `
		MATCH (u:User {id: $user_id})-[:COMPLETED]->(c:Course)
		MATCH (other:User)-[:COMPLETED]->(c)
		WHERE other <> u
		MATCH (other)-[:COMPLETED]->(oc:Course)
		WHERE NOT (u)-[:COMPLETED]->(oc)
		RETURN oc.id AS course_id,
		       count(DISTINCT other) AS score
		ORDER BY score DESC, course_id ASC
		LIMIT $limit
	`
)

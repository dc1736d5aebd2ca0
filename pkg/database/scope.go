package database

import "fmt"

// memberScope renders the membership predicate restricting a query to
// projects the user at placeholder argPos collaborates on. projectCol is
// the qualified project id column of the outer query.
func memberScope(projectCol string, argPos int) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM project_user pu_scope WHERE pu_scope.project_id = %s AND pu_scope.user_id = $%d)",
		projectCol, argPos,
	)
}

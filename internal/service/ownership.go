package service

// Ownership policy: pure predicates deciding whether an acting user may
// modify a resource. Callers decide how to signal a false result (the
// services translate it to ErrTaskNotOwned / ErrUserNotSelf).

// CanModifyTask reports whether the actor owns the task.
func CanModifyTask(ownerID, actorID int64) bool {
	return ownerID == actorID
}

// CanModifyUser reports whether the actor is the target user. Users may
// only ever mutate themselves.
func CanModifyUser(targetID, actorID int64) bool {
	return targetID == actorID
}

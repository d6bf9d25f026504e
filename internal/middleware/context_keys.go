package middleware

import "context"

// ownerIDKey is the key used to store the authenticated owner's ID in the
// request context.
const ownerIDKey = contextKey("ownerID")

// GetOwnerIDFromCtx retrieves the authenticated owner ID from the context.
// It returns the owner ID and a boolean indicating if it was found.
func GetOwnerIDFromCtx(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}

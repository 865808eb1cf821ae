package utils

import "context"

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	userEmailKey ctxKey = "email"
	sellerKey    ctxKey = "is_seller"
)

func WithUser(ctx context.Context, userID uint, email string, isSeller bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userEmailKey, email)
	return context.WithValue(ctx, sellerKey, isSeller)
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

func GetUserEmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey).(string); ok {
		return email
	}
	return ""
}

func IsSellerFromContext(ctx context.Context) bool {
	isSeller, _ := ctx.Value(sellerKey).(bool)
	return isSeller
}

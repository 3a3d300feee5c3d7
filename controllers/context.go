package controllers

import (
	"net/http"
	"zuka-backend/middleware"
	"zuka-backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID extracts the authenticated user's id from the JWT
// claims stored by the auth middleware.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func isAdmin(r *http.Request) bool {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	return ok && claims.Role == "admin"
}

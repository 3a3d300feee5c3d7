package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"zuka-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistController handles wishlist-related requests
type WishlistController struct {
	Collection *mongo.Collection
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(db *mongo.Database) *WishlistController {
	return &WishlistController{
		Collection: db.Collection("wishlists"),
	}
}

// GetWishlist retrieves the user's wishlist, creating an empty one if
// needed
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var wishlist models.Wishlist
	err := wc.Collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		wishlist = models.Wishlist{UserID: userID, Products: []primitive.ObjectID{}}
		res, err := wc.Collection.InsertOne(ctx, wishlist)
		if err != nil {
			http.Error(w, "Error creating wishlist", http.StatusInternalServerError)
			return
		}
		wishlist.ID = res.InsertedID.(primitive.ObjectID)
	} else if err != nil {
		http.Error(w, "Error loading wishlist", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wishlist)
}

// AddToWishlist adds a product to the user's wishlist
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// $addToSet keeps the list duplicate free
	_, err = wc.Collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$addToSet": bson.M{"products": productID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		http.Error(w, "Error updating wishlist", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Product added to wishlist"})
}

// RemoveFromWishlist removes a product from the user's wishlist
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := wc.Collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	if err != nil {
		http.Error(w, "Error updating wishlist", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Wishlist not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Product removed from wishlist"})
}

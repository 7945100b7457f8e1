package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// MovieRepository implements ports.MovieRepository on MongoDB.
// Every filter carries user_id so foreign documents are invisible.
type MovieRepository struct {
	db    *mongo.Database
	col   *mongo.Collection
	users *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{
		db:    db,
		col:   db.Collection(collectionMovies),
		users: db.Collection(collectionUsers),
	}
}

func (r *MovieRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]domain.Movie, 0)
	if err := cur.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return movies, nil
}

// Create checks the owner exists, since MongoDB has no foreign keys, and
// inserts the movie with the next sequential id.
func (r *MovieRepository) Create(ctx context.Context, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("check owner: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}

	id, err := nextID(ctx, r.db, collectionMovies)
	if err != nil {
		return nil, err
	}

	m := domain.Movie{
		ID:         id,
		Title:      f.Title,
		Year:       f.Year,
		Runtime:    f.Runtime,
		Genre:      f.Genre,
		Director:   f.Director,
		IsFavorite: f.IsFavorite,
		UserID:     userID,
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMovieExists
		}
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return &m, nil
}

func (r *MovieRepository) Update(ctx context.Context, id, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	update := bson.M{"$set": bson.M{
		"title":       f.Title,
		"year":        f.Year,
		"runtime":     f.Runtime,
		"genre":       f.Genre,
		"director":    f.Director,
		"is_favorite": f.IsFavorite,
	}}
	return r.findAndUpdate(ctx, id, userID, update)
}

func (r *MovieRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) FindByTitleYear(ctx context.Context, userID int64, title string, year int) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Movie
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "title": title, "year": year}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return &m, nil
}

// FlipFavorite negates the stored flag with an aggregation-pipeline update so
// concurrent flips never read a stale value.
func (r *MovieRepository) FlipFavorite(ctx context.Context, id, userID int64) (*domain.Movie, error) {
	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_favorite", Value: bson.D{{Key: "$not", Value: bson.A{"$is_favorite"}}}},
		}}},
	}
	return r.findAndUpdate(ctx, id, userID, flip)
}

func (r *MovieRepository) findAndUpdate(ctx context.Context, id, userID int64, update any) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Movie
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrMovieNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrMovieExists
	default:
		return nil, fmt.Errorf("update movie: %w", err)
	}
}

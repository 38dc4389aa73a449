package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect abre la conexión a Mongo y devuelve el handle de la base.
// El caller es dueño del client (Disconnect al apagar); nada de singletons
// para que los tests puedan inyectar sus propios stores.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	slog.Info("mongo conectado", "db", cfg.MongoDB)
	return client, client.Database(cfg.MongoDB), nil
}

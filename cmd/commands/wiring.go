package commands

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"blogd/config"
	"blogd/internal/application/usecase"
	"blogd/internal/application/usecase/abstraction"
	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/mailer"
	"blogd/internal/domain/repository/store"
	"blogd/internal/infrastructure/broker"
	"blogd/internal/infrastructure/database"
	"blogd/internal/infrastructure/filestore"
	"blogd/internal/infrastructure/minio"
	"blogd/pkg/logger"
)

type closer func() error

func noop() error { return nil }

type repositories struct {
	authors store.Repository[model.Author]
	posts   store.Repository[model.BlogPost]
}

func openRepositories(cfg *config.Config) (repositories, closer, error) {
	if cfg.Storage.Driver == config.DriverMongo {
		db, err := database.Connect(cfg.DBConfig)
		if err != nil {
			return repositories{}, nil, err
		}

		return repositories{
			authors: database.NewRepository[model.Author](db, model.AuthorCollection),
			posts:   database.NewRepository[model.BlogPost](db, model.BlogPostCollection),
		}, db.Stop, nil
	}

	s, err := filestore.New(afero.NewOsFs(), cfg.FileStore)
	if err != nil {
		return repositories{}, nil, err
	}

	return repositories{
		authors: filestore.NewRepository[model.Author](s, model.AuthorCollection),
		posts:   filestore.NewRepository[model.BlogPost](s, model.BlogPostCollection),
	}, noop, nil
}

func openImageHost(cfg *config.Config) (*minio.Uploader, *minio.Remover, error) {
	client, err := minio.New(&cfg.MinIOClient)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.EnsureBucket(ctx); err != nil {
		return nil, nil, err
	}

	return minio.NewUploader(client, &cfg.MinIOUploader), minio.NewRemover(client, &cfg.MinIORemover), nil
}

// openDispatcher returns the notification dispatcher for the configured mode
// and, in queue mode, the worker draining the outbox. Without a mail API key
// notifications are skipped.
func openDispatcher(cfg *config.Config, sender mailer.Sender,
) (abstraction.Dispatcher, *usecase.NotificationWorker, closer, error) {
	if cfg.Mailer.APIKey == "" {
		logger.Warn("SEND_GRID_API_KEY is not set, notifications are disabled")

		return nil, nil, noop, nil
	}

	if cfg.Notifier.Mode != usecase.NotifyQueue {
		return usecase.NewDirectNotifier(sender, cfg.Notifier), nil, noop, nil
	}

	client, err := broker.NewClient(cfg.BrokerConfig)
	if err != nil {
		return nil, nil, nil, err
	}

	publisher := broker.NewPublisher(client, cfg.PublisherConfig)
	worker := usecase.NewNotificationWorker(broker.NewReceiver(client), publisher, sender, cfg.Notifier)

	return usecase.NewQueuedNotifier(publisher, cfg.Notifier), worker, client.Close, nil
}

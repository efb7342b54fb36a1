package ingest

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"cloudunify-backend/internal/models"
	"cloudunify-backend/internal/seed"
)

// ResourceBatch is the wire shape cloud collectors publish on
// inventory.<provider>.snapshot.
type ResourceBatch struct {
	Provider string              `msgpack:"provider"`
	Items    []models.SeedRecord `msgpack:"items"`
}

// InventoryConsumer pulls resource snapshots from JetStream and routes them
// through the seeding pipeline, so agent-reported inventory converges with
// fixture- and API-seeded data under the same merge rules.
type InventoryConsumer struct {
	js     nats.JetStreamContext
	seeder *seed.Seeder
	sub    *nats.Subscription
}

func NewInventoryConsumer(js nats.JetStreamContext, seeder *seed.Seeder) *InventoryConsumer {
	return &InventoryConsumer{js: js, seeder: seeder}
}

func (c *InventoryConsumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(
		"inventory.*.snapshot",
		"backend-inventory",
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.MaxAckPending(1000),
	)
	if err != nil {
		return err
	}
	c.sub = sub

	go c.consumeLoop(ctx)
	log.Println("INFO Inventory consumer started")
	return nil
}

func (c *InventoryConsumer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(64, nats.MaxWait(5*time.Second))
		if err != nil {
			if err != nats.ErrTimeout {
				log.Printf("WARN Inventory fetch error: %v", err)
			}
			continue
		}

		for _, msg := range msgs {
			if err := c.processMessage(ctx, msg); err != nil {
				log.Printf("WARN Inventory process error: %v", err)
				msg.NakWithDelay(5 * time.Second)
				continue
			}
			msg.Ack()
		}
	}
}

func (c *InventoryConsumer) processMessage(ctx context.Context, msg *nats.Msg) error {
	var batch ResourceBatch
	if err := msgpack.Unmarshal(msg.Data, &batch); err != nil {
		log.Printf("ERROR Inventory unmarshal error: %v", err)
		msg.Term()
		return nil
	}

	result, err := c.seeder.Seed(ctx, "resources", batch.Items)
	if err != nil {
		return err
	}

	log.Printf("INFO Inventory snapshot applied: provider=%s inserted=%d updated=%d skipped=%d",
		batch.Provider, result.Inserted, result.Updated, result.Skipped)
	return nil
}

// Stop gracefully stops the consumer.
func (c *InventoryConsumer) Stop() error {
	if c.sub != nil {
		return c.sub.Drain()
	}
	return nil
}

package listener

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"google.golang.org/api/option"
)

// Request overrides the configured owner and file ids for one extraction.
// Zero fields keep the configured values.
type Request struct {
	UserID  string
	FileIDs []string
}

// DecodeRequest parses {"userId": "...", "fileIds": ["..."]}. An empty body is an empty request.
// Ids that cannot name a Firestore document are rejected.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if len(data) == 0 {
		return req, nil
	}

	d := jx.DecodeBytes(data)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "userId":
			v, err := d.Str()
			if err != nil {
				return err
			}
			if v != "" {
				if err := checkID(v); err != nil {
					return err
				}
			}
			req.UserID = v
		case "fileIds":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				if err := checkID(v); err != nil {
					return err
				}
				req.FileIDs = append(req.FileIDs, v)
				return nil
			})
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "decode request")
	}

	return req, nil
}

func checkID(id string) error {
	if id == "" {
		return errors.New("empty id")
	}
	if strings.Contains(id, "/") {
		return errors.Errorf("id %q contains '/'", id)
	}
	return nil
}

// Start receives messages on subID until ctx is done, running fn once per message.
// The topic and subscription are created when missing.
func Start(
	ctx context.Context,
	projectID string,
	topicID string,
	subID string,
	fn func(ctx context.Context, req Request) error,
	opts ...option.ClientOption,
) error {
	if projectID == "" {
		projectID = pubsub.DetectProjectID
	}

	pubsubClient, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return err
	}
	defer pubsubClient.Close()

	topic, err := ensureTopic(ctx, pubsubClient, topicID)
	if err != nil {
		return err
	}

	sub, err := ensureSub(ctx, pubsubClient, subID, &pubsub.SubscriptionConfig{
		Topic:                     topic,
		EnableExactlyOnceDelivery: true,
	})
	if err != nil {
		return err
	}

	fmt.Println("face extractor listening")
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		req, err := DecodeRequest(msg.Data)
		if err != nil {
			// malformed bodies are acked so they are not redelivered
			fmt.Printf("message %s dropped: %v\n", msg.ID, err)
			msg.Ack()
			return
		}
		if err := fn(ctx, req); err != nil {
			fmt.Printf("message processing failed: %v\n", err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func ensureTopic(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "check topic %s", topicID)
	}
	if ok {
		return topic, nil
	}

	topic, err = client.CreateTopic(ctx, topicID)
	if err != nil {
		return nil, errors.Wrapf(err, "create topic %s", topicID)
	}
	return topic, nil
}

// ensureSub creates the subscription on first use.
func ensureSub(ctx context.Context, client *pubsub.Client, subID string, cfg *pubsub.SubscriptionConfig) (*pubsub.Subscription, error) {
	sub := client.Subscription(subID)
	ok, err := sub.Exists(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "check subscription %s", subID)
	}
	if ok {
		return sub, nil
	}

	sub, err = client.CreateSubscription(ctx, subID, *cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "create subscription %s", subID)
	}
	return sub, nil
}

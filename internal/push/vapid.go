package push

import (
	"fmt"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// VAPIDKeys holds the key pair used to authenticate the sender to push
// services without per-message credentials.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string

	// Subscriber is the contact address sent alongside deliveries,
	// e.g. "admin@broadoakgroup.co.uk". webpush adds the mailto: prefix.
	Subscriber string
}

// VAPIDKeysFromEnv loads the VAPID key pair from the environment. When no
// pair is configured a fresh one is generated and returned; callers should
// log the generated keys so they can be persisted for later runs, otherwise
// existing subscriptions become undeliverable on restart.
func VAPIDKeysFromEnv() (*VAPIDKeys, bool, error) {
	keys := &VAPIDKeys{
		PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		Subscriber: os.Getenv("VAPID_SUBSCRIBER"),
	}
	if keys.Subscriber == "" {
		keys.Subscriber = "admin@broadoakgroup.co.uk"
	}

	if keys.PublicKey != "" && keys.PrivateKey != "" {
		return keys, false, nil
	}

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return nil, false, fmt.Errorf("generate VAPID keys: %w", err)
	}

	keys.PrivateKey = privateKey
	keys.PublicKey = publicKey
	return keys, true, nil
}

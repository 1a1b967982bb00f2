package blockchain

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/util"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to provide a callback for
// notifications about various chain events.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTBlockAdded indicates the associated block was accepted into the
	// chain. The caller would typically want to react by relaying the
	// block to other peers.
	NTBlockAdded NotificationType = iota

	// NTChainChanged indicates the best chain tip has advanced.
	NTChainChanged
)

// notificationTypeStrings is a map of notification types back to their
// constant names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTBlockAdded:   "NTBlockAdded",
	NTChainChanged: "NTChainChanged",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return "Unknown Notification Type"
}

// BlockAddedNotificationData defines data to be sent along with a
// NTBlockAdded notification.
type BlockAddedNotificationData struct {
	Block *util.Block
}

// ChainChangedNotificationData defines data to be sent along with a
// NTChainChanged notification. PreviousHeight is always the -1 sentinel and
// OldHash is always nil: the core never reorganizes, it only advances.
type ChainChangedNotificationData struct {
	Height         uint64
	PreviousHeight int64
	Hash           *chainhash.Hash
	OldHash        *chainhash.Hash
}

// Notification defines an asynchronous notification that is sent to the
// caller over the notification callback.
type Notification struct {
	Type NotificationType
	Data interface{}
}

// Subscribe to chain notifications. Registers a callback to be executed when
// various events take place.
func (chain *BlockChain) Subscribe(callback NotificationCallback) {
	chain.notificationsLock.Lock()
	defer chain.notificationsLock.Unlock()
	chain.notifications = append(chain.notifications, callback)
}

// sendNotification sends a notification with the passed type and data if the
// caller requested notifications by providing a callback function in the
// call to New.
func (chain *BlockChain) sendNotification(typ NotificationType, data interface{}) {
	// Generate and send the notification.
	n := Notification{Type: typ, Data: data}
	chain.notificationsLock.RLock()
	defer chain.notificationsLock.RUnlock()
	for _, callback := range chain.notifications {
		callback(&n)
	}
}

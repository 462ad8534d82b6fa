// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserSubscriptionTable represents the 'users.subscription' edge table
type UserSubscriptionTable struct {
	Table        string
	SubscriberID string
	ChannelID    string
	CreatedAt    string
}

// UserSubscription is the schema definition for users.subscription
var UserSubscription = UserSubscriptionTable{
	Table:        "users.subscription",
	SubscriberID: "subscriberid",
	ChannelID:    "channelid",
	CreatedAt:    "createdat",
}

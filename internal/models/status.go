// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import "strings"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderOnTheWay  OrderStatus = "ON_THE_WAY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderOnTheWay, OrderDelivered, OrderCancelled}

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:   "Pending",
	OrderPreparing: "Preparing",
	OrderOnTheWay:  "Out for Delivery",
	OrderDelivered: "Delivered",
	OrderCancelled: "Cancelled",
}

// Label is the human-readable status used on dashboards.
func (s OrderStatus) Label() string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// IsActive is true for orders that are neither delivered nor cancelled.
func (s OrderStatus) IsActive() bool {
	return s != OrderDelivered && s != OrderCancelled
}

// IsTerminal is the complement of IsActive for known statuses.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// TrackingStep is one stage of the customer-facing order stepper.
type TrackingStep struct {
	Status OrderStatus
	Label  string
}

// TrackingSteps are the stages shown to customers. Cancellation is not a step.
var TrackingSteps = []TrackingStep{
	{OrderPending, "Order Placed"},
	{OrderPreparing, "Preparing"},
	{OrderOnTheWay, "Out for Delivery"},
	{OrderDelivered, "Delivered"},
}

// Step returns the index of s in TrackingSteps, or -1 (cancelled, unknown).
func (s OrderStatus) Step() int {
	for i, step := range TrackingSteps {
		if step.Status == s {
			return i
		}
	}
	return -1
}

// StatusAction is a transition a provider can request from the order board.
type StatusAction struct {
	Next  OrderStatus
	Label string
}

var providerTransitions = map[OrderStatus][]StatusAction{
	OrderPending: {
		{OrderPreparing, "Start Preparing"},
		{OrderCancelled, "Cancel Order"},
	},
	OrderPreparing: {
		{OrderOnTheWay, "Out for Delivery"},
		{OrderCancelled, "Cancel Order"},
	},
	OrderOnTheWay: {
		{OrderDelivered, "Mark Delivered"},
	},
}

// NextStatuses returns the transitions a provider may request from s.
// Terminal and unknown statuses have none.
func NextStatuses(s OrderStatus) []StatusAction {
	return providerTransitions[s]
}

// CanTransition reports whether a provider may move an order from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, a := range providerTransitions[from] {
		if a.Next == to {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Role is the account type of a signed-in user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a backend role string. Unknown or empty roles are
// treated as customers, the least privileged account type.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleProvider:
		return RoleProvider
	default:
		return RoleCustomer
	}
}

// UserStatus is an account's moderation state.
type UserStatus string

const (
	UserActive      UserStatus = "ACTIVATE"
	UserSuspended   UserStatus = "SUSPENDED"
	UserDeactivated UserStatus = "DEACTIVATED"
)

// AdminSettableStatuses are the statuses an administrator can assign.
var AdminSettableStatuses = []UserStatus{UserActive, UserSuspended}

// Valid reports whether s is an admin-settable status.
func (s UserStatus) Valid() bool {
	for _, v := range AdminSettableStatuses {
		if v == s {
			return true
		}
	}
	return false
}

package orders

import (
	"fmt"

	"github.com/maplewick/storefront/internal/commerce"
)

type statusDisplay struct {
	Title       string
	Description string
	Icon        string
}

var statusDisplays = map[Status]statusDisplay{
	StatusPending:    {Title: "Order Placed", Description: "We have received your order and will confirm it shortly.", Icon: "clock"},
	StatusConfirmed:  {Title: "Order Confirmed", Description: "Your order has been confirmed and queued for our workshop.", Icon: "check-circle"},
	StatusProcessing: {Title: "Preparing Your Order", Description: "Our workshop is preparing your furniture for dispatch.", Icon: "package"},
	StatusShipped:    {Title: "Out for Delivery", Description: "Your order has left our warehouse and is on its way.", Icon: "truck"},
	StatusDelivered:  {Title: "Delivered", Description: "Your order has been delivered. Enjoy your new furniture!", Icon: "home"},
	StatusCancelled:  {Title: "Order Cancelled", Description: "This order has been cancelled.", Icon: "x-circle"},
	StatusRefunded:   {Title: "Order Refunded", Description: "Your payment for this order has been refunded.", Icon: "rotate-ccw"},
}

// displayFor returns the fixed lookup entry for known statuses and a generated
// generic entry for anything else, so unknown backend statuses still render.
func displayFor(status Status) statusDisplay {
	if display, ok := statusDisplays[status]; ok {
		return display
	}
	return statusDisplay{
		Title:       fmt.Sprintf("Status: %s", status),
		Description: fmt.Sprintf("Your order status was updated to %q.", string(status)),
		Icon:        "info",
	}
}

// FormatAddress renders an address as a single display string.
func FormatAddress(addr *commerce.Address) string {
	if addr == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s, %s", addr.Street, addr.City, addr.State, addr.Zip, addr.Country)
}

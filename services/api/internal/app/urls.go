package app

import "strings"

// TicketURL builds the public ticket page link for a ticket key. The same
// URL is the payload of the scannable QR code.
func TicketURL(siteURL, ticketKey string) string {
	return strings.TrimRight(siteURL, "/") + "/ticket/" + ticketKey
}

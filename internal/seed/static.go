// ABOUTME: Static fallback tickets used when OpenAI is not configured.
// ABOUTME: Cycles through a fixed list, numbering repeats so subjects stay distinct.

package seed

import "fmt"

var staticTickets = []TicketData{
	{Subject: "Charged twice for March invoice", Requester: "dana@northwind.io", Priority: "high", Body: "Our card shows two charges for invoice #2291. Please refund the duplicate."},
	{Subject: "Cannot reset password", Requester: "li.wei@example.com", Priority: "normal", Body: "The reset link says it has expired even when I click it right away."},
	{Subject: "Export to CSV drops accented names", Requester: "ops@cafe-lumiere.fr", Priority: "normal", Body: "Names like Zoë come out garbled in the CSV export."},
	{Subject: "Dashboard down for whole team", Requester: "sre@acme.dev", Priority: "urgent", Body: "Everyone gets a 502 on the dashboard since 09:10 UTC."},
	{Subject: "Request: dark mode", Requester: "maria@studio.design", Priority: "low", Body: "Would love a dark theme for late night work."},
	{Subject: "SSO login loops back to sign-in", Requester: "it@globex.com", Priority: "high", Body: "After Okta approves, we land on the sign-in page again."},
	{Subject: "Webhook retries never stop", Requester: "dev@tinyshop.co", Priority: "normal", Body: "A webhook that returned 200 keeps being retried every hour."},
	{Subject: "How do I add a second admin?", Requester: "owner@bakery.example", Priority: "low", Body: "I can't find where to invite another administrator."},
	{Subject: "API rate limit too low for nightly sync", Requester: "data@initech.com", Priority: "normal", Body: "Our nightly import hits 429s after about ten minutes."},
	{Subject: "Invoice shows wrong VAT number", Requester: "finance@hooli.eu", Priority: "normal", Body: "The VAT ID on our invoices is from our old address."},
	{Subject: "Mobile app crashes on upload", Requester: "sam@fieldcrew.net", Priority: "high", Body: "Uploading a photo larger than 10MB closes the app on Android 14."},
	{Subject: "Cancel subscription at end of term", Requester: "pat@smallbiz.org", Priority: "low", Body: "Please cancel our plan when the current year ends."},
}

func generateStaticTickets(count int) []TicketData {
	tickets := make([]TicketData, 0, count)
	for i := 0; i < count; i++ {
		t := staticTickets[i%len(staticTickets)]
		if round := i / len(staticTickets); round > 0 {
			t.Subject = fmt.Sprintf("%s (%d)", t.Subject, round+1)
		}
		tickets = append(tickets, t)
	}
	return tickets
}

package agent

import (
	"strconv"
	"strings"

	"github.com/kilobco/sb-voice-agent/internal/menu"
)

// GreetingPrompt is the injected user turn that makes the agent speak first.
const GreetingPrompt = "A caller just connected. Greet them warmly as Saravanaa Bhavan Irvine and offer to take their order."

// TransferPhrase is the literal token the agent emits in its speech
// transcript to request escalation to a human.
const TransferPhrase = "TRANSFER_TO_HUMAN"

// SystemInstruction assembles the order-taking instructions plus the full
// menu. Built once per process; the menu is static.
func SystemInstruction() string {
	var b strings.Builder

	b.WriteString(`You are the phone host for Saravanaa Bhavan Irvine, a South Indian vegetarian restaurant. You take pickup orders over the phone.

How to run the call:
- Speak briefly and naturally; callers are on a phone line.
- Only offer items that are on the menu below. Use searchMenu when you are unsure of a name or price, and always quote the menu price.
- Use manageOrder to add or remove items as the caller decides. When a caller changes a quantity, call manageOrder again with the new quantity.
- Before finalizing, read the order back with the total.
- Ask for the caller's name and phone number, confirm them with collectCustomerDetails, then call completeOrder.
- After completeOrder succeeds, read the order number back slowly, letter by letter, and tell them when pickup will be ready (about 20 minutes).
- If the caller asks for a human, is upset, or you cannot help after two tries, say you will transfer them and include the exact text ` + TransferPhrase + ` in your reply.
- Never invent prices or menu items. Never mention tools, systems, or errors in detail; if something fails, apologize briefly and carry on.

Menu (exact names and prices):
`)

	category := ""
	for _, it := range menu.Items() {
		if it.Category != category {
			category = it.Category
			b.WriteString("\n")
			b.WriteString(category)
			b.WriteString(":\n")
		}
		b.WriteString("- ")
		b.WriteString(it.Name)
		b.WriteString(": $")
		b.WriteString(formatPrice(it.Price))
		b.WriteString("\n")
	}

	return b.String()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

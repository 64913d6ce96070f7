package payment

import (
	"fmt"
	"strings"
)

// Per-method payment instructions. Placeholders are interpolated with
// InjectVariables before the steps are shown to the payer.
var instructionMap = map[Method][]string{
	MethodWalletTransfer: {
		"Open your mobile wallet app",
		"Send {{amount}} to the club collection number",
		"Enter {{reference}} as the transfer note",
		"Use the phone number {{payer_phone}} you registered with",
		"Keep the transfer receipt until your assessment is confirmed",
	},

	MethodEWallet: {
		"Open your e-wallet app and choose Pay",
		"Pay exactly {{amount}} to the club merchant account",
		"Quote the payment code {{reference}} in the payment note",
		"Keep the in-app receipt until your assessment is confirmed",
	},

	MethodBankTransfer: {
		"Transfer {{amount}} to the club bank account",
		"Use {{reference}} as the transfer description",
		"Transfers from {{payer_phone}} linked accounts settle fastest",
		"Send your proof of transfer to the club to confirm the payment",
	},
}

// getInstructions returns the raw step template for a manual method.
func getInstructions(m Method) []string {
	if steps, ok := instructionMap[m]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions shown on this page",
	}
}

type InstructionVars map[string]string

// InjectVariables substitutes {{key}} placeholders in every step.
func InjectVariables(steps []string, vars InstructionVars) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// FormatAmount renders a minor-unit amount as the human figure the payer
// must transfer, e.g. 5000 -> "50.00".
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

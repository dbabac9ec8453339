package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/myjellybean/jellybean/internal/model"
)

var systemInstruction = `You are a world-class human-safety analyst. Your goal is to protect users from scams, impersonation, harassment, and coercion.

Guidelines:
- Prioritize user protection and be conservative in risk scoring.
- Never encourage retaliation, doxxing, or threats.
- If content suggests imminent danger (violence, stalking, self-harm), explicitly state to contact emergency services.
- If uncertain, choose "uncertain" and provide verification steps.
- Provide a strict JSON response.

Categories: ` + categoryList() + `.`

func categoryList() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// SystemInstruction returns the fixed policy sent with every request.
func SystemInstruction() string { return systemInstruction }

// BuildPrompt renders the user turn for req.
func BuildPrompt(req model.AnalysisRequest) string {
	ctx, _ := json.Marshal(req.Context)

	var b strings.Builder
	b.WriteString("Analyze this message for safety risks.\n\n")
	fmt.Fprintf(&b, "Message: %q\n", req.Message)
	fmt.Fprintf(&b, "Platform: %s\n", req.Platform)
	fmt.Fprintf(&b, "Relationship: %s\n", req.Relationship)
	fmt.Fprintf(&b, "Additional Context: %s\n", ctx)
	return b.String()
}

package flow

import "github.com/BTreeMap/MindShift/internal/models"

// RenderStep evaluates a step's response template. Literal steps return
// their fixed text; template steps are called with the most recent literal
// answer and the live context. Rendering never mutates the context.
func RenderStep(step *models.Step, sc *models.SessionContext, lastInput string) string {
	if step.IsLiteral() {
		return step.Text
	}
	return step.Render(lastInput, sc)
}

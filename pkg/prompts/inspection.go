// Package prompts builds the fixed instructions sent to the vision model.
package prompts

import "strings"

// BuildInspectionPrompt creates the garment inspection instruction. The
// prompt pins down the narrow domain (jeans), an out-of-domain rejection
// rule, an open-ended defect taxonomy with examples, the three-level
// severity scale, and the exact JSON object the model must reply with.
// The deployment operates in Spanish, so the instruction does too.
func BuildInspectionPrompt() string {
	var b strings.Builder

	b.WriteString("Eres un experto en control de calidad textil especializado en la inspección de pantalones y jeans. ")
	b.WriteString("Analiza esta imagen de un pantalón/jean y detecta TODOS los posibles defectos de fabricación.\n\n")

	b.WriteString("Si la imagen NO muestra un pantalón o jean, indícalo en el resumen y asigna quality_score 0.\n\n")

	b.WriteString("Para cada defecto encontrado, proporciona:\n")
	b.WriteString("1. Tipo de defecto (ej: costura irregular, mancha, decoloración, hilo suelto, botón defectuoso, ")
	b.WriteString("cierre dañado, tela rasgada, medidas incorrectas, arrugas permanentes, costuras torcidas, ")
	b.WriteString("ojales mal hechos, remaches defectuosos, etiqueta mal colocada, desgaste prematuro, ")
	b.WriteString("manchas de aceite, puntos saltados en costura, etc.)\n")
	b.WriteString("2. Severidad: \"critical\" (afecta funcionalidad o es muy visible), ")
	b.WriteString("\"major\" (defecto notable pero no crítico), \"minor\" (defecto menor, poco visible)\n")
	b.WriteString("3. Ubicación aproximada en la prenda\n")
	b.WriteString("4. Confianza del análisis (porcentaje)\n")
	b.WriteString("5. Descripción detallada del defecto\n")
	b.WriteString("6. Recomendación (rechazar, reparar, aprobar con observación)\n\n")

	b.WriteString("Si NO encuentras defectos, indica que la prenda pasa el control de calidad.\n\n")

	b.WriteString("Responde ÚNICAMENTE en formato JSON válido con esta estructura:\n")
	b.WriteString(`{
  "status": "defects_found" | "approved",
  "summary": "Resumen general del análisis",
  "total_defects": número,
  "quality_score": número del 0 al 100,
  "defects": [
    {
      "id": "string único",
      "type": "tipo de defecto",
      "severity": "critical" | "major" | "minor",
      "location": "ubicación en la prenda",
      "confidence": número del 0 al 100,
      "description": "descripción detallada",
      "recommendation": "rechazar" | "reparar" | "aprobar con observación"
    }
  ],
  "overall_recommendation": "APROBAR" | "RECHAZAR" | "REPARAR",
  "notes": "notas adicionales del inspector IA"
}`)

	return b.String()
}

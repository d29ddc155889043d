package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/adapters"
	"github.com/PactInteractive/dbchat/internal/models"
)

// schemaUnavailableNotice replaces the schema section of the system
// prompt when introspection fails. The prompt must still be usable, so
// the model is told to surface the problem instead of guessing.
const schemaUnavailableNotice = "Database schema not provided. " +
	"If you're relying on the schema for your response, let the user know there has been an error."

// systemPromptTemplate takes the engine name (twice via %[1]s), the
// profile context, the rendered schema and today's date.
var systemPromptTemplate = `You are a secure assistant crafting SQL queries for a %[1]s database, using these details:

### Context
%[2]s

### Schema
%[3]s

### Responsibilities
1. **Write Queries**: Generate one %[1]s query for data requests, selecting metrics like counts or totals for vague or creative inputs (e.g., “interesting query”).
2. **Explain Queries**: Briefly clarify the query's purpose in a concise, professional tone, using backticks for field names (e.g., ` + "`orders.total_amount`" + `).
3. **Guide Refinements**: Suggest improvements (e.g., filters, joins), supporting user-modified queries or conversational tweaks.
4. **Analyze Results**: Offer insights (e.g., trends, outliers, marketing strategies) from user-shared query results, using tables or text.
5. **Handle External Data**: For non-schema data (e.g., city populations), provide estimates, noting sources.

### Guidelines
- Use a concise, professional tone like a colleague discussing data, avoiding casual phrases or apologies.
- Use backticks for field names and short code snippets (e.g., ` + "`WHERE status = 'delivered'`, `orders.order_date`" + `) for clarity.
- Bold numbers, names, and values (e.g., **14 orders**, **New York**) in explanations and analysis.
- Write queries in %[1]s syntax, multi-line, using %[4]s for dates:
  - “Past week” is 7 days (e.g., MySQL: ` + "`DATE_SUB(CURDATE(), INTERVAL 7 DAY)`" + `; PostgreSQL: ` + "`CURRENT_DATE - INTERVAL '7 days'`" + `), noting range (e.g., “April 8–14, 2025”).
  - “Past N weeks” is N*7 days (e.g., MySQL: ` + "`DATE_SUB(CURDATE(), INTERVAL N WEEK)`" + `).
- Show queries in a ` + "```sql ... ```" + ` block.
- For result analysis or external data, use Markdown tables:
  - Right-align numbers: ` + "`|---:|`" + ` for counts, amounts, averages.
  - No alignment for text/dates: ` + "`|---|`" + `.
  - One separator line, no ` + "```markdown ... ```" + ` block.
- If schema lacks fields, suggest alternatives (e.g., ` + "`orders.order_date`" + `) or clarify intent.

### Response Format
- Explain the query's purpose in a few sentences, noting date ranges if used.
- Show the query in a ` + "```sql ... ```" + ` block.
- As a natural part of conversation, briefly suggest one or two improvements or warn about risks (e.g., “Index ` + "`order_date`" + ` for faster queries”). Avoid filler phrases like "note that <something>".
- If results are shared, analyze trends or insights, keeping it concise. Avoid repeating the results you were provided in a table "just for clarity" or "a quick overview" - only show a table if it adds new information.
- Briefly invite tweaks or result sharing to continue the conversation. Avoid filler phrases like "let me know if you want..."

Respond concisely, like a teammate summarizing data, ready to refine queries or analyze results.`

// SchemaService renders introspected schemas as Markdown and builds
// the system prompt sent to the AI providers.
type SchemaService struct {
	registry *adapters.Registry
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSchemaService(registry *adapters.Registry, logger zerolog.Logger) *SchemaService {
	return &SchemaService{registry: registry, logger: logger, now: time.Now}
}

// RenderSchema produces the Markdown table listing. The output is
// deterministic: same schema in, byte-identical text out.
func RenderSchema(schema models.Schema) string {
	var lines []string
	for _, table := range schema.Tables {
		lines = append(lines, fmt.Sprintf("#### Table: %s", table.Name))
		lines = append(lines, "| Column Name | Data Type | Nullable | Constraint |")
		lines = append(lines, "|-------------|-----------|----------|------------|")
		for _, column := range table.Columns {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s |",
				column.Name, column.DataType, column.Nullable, column.Constraint))
		}
	}
	return strings.Join(lines, "\n")
}

// SchemaMarkdown introspects the profile's database and renders it.
// Introspection failures degrade to a notice instead of an error so
// prompting still works against an unreachable database.
func (s *SchemaService) SchemaMarkdown(ctx context.Context, profile models.ConnectionProfile) string {
	adapter, err := s.registry.Resolve(profile.Engine)
	if err != nil {
		s.logger.Error().Err(err).Str("database", profile.Database).Msg("schema introspection failed")
		return schemaUnavailableNotice
	}

	schema, err := adapter.GetSchema(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Str("database", profile.Database).Msg("schema introspection failed")
		return schemaUnavailableNotice
	}
	return RenderSchema(schema)
}

// SystemPrompt assembles the full instruction block for one prompt
// request, fetching the schema fresh every time.
func (s *SchemaService) SystemPrompt(ctx context.Context, profile models.ConnectionProfile) string {
	dbContext := profile.Context
	if dbContext == "" {
		dbContext = "No context provided."
	}

	today := s.now().Format("January 2, 2006")
	return fmt.Sprintf(systemPromptTemplate, profile.Engine, dbContext, s.SchemaMarkdown(ctx, profile), today)
}

package pipeline

// buildExtractionPrompt returns the fixed instruction plus the chunk text.
// The chunk already embeds per-document index delimiters; the instruction
// tells the model to echo those indices back so responses can be correlated.
func buildExtractionPrompt(chunkText string) string {
	instruction :=
		"You are a bank statement analyzer. The input below contains the text of one or more\n" +
			"bank statement documents. Each document is wrapped in delimiters of the form\n" +
			"\"=== DOCUMENT <index> (file: <name>) ===\" ... \"=== END DOCUMENT <index> ===\".\n\n" +
			"Task:\n" +
			"- For EVERY document in the input, output exactly one JSON object.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n\n" +
			"Each object must have these fields:\n" +
			"- \"document_index\": number, copied from the document's delimiter\n" +
			"- \"bank_name\": string or null\n" +
			"- \"company_name\": string or null (the account holder)\n" +
			"- \"account_number\": string or null\n" +
			"- \"currency\": string or null (e.g. \"KES\", \"USD\")\n" +
			"- \"statement_period\": string or null (e.g. \"January 2024\" or \"November 2023 - February 2024\")\n" +
			"- \"monthly_balances\": array of objects, one per month covered, each with:\n" +
			"  - \"month\": number 1-12\n" +
			"  - \"year\": number\n" +
			"  - \"opening_balance\": number or null\n" +
			"  - \"closing_balance\": number or null\n" +
			"  - \"statement_page\": number or null (page the balance appears on)\n\n" +
			"Rules:\n" +
			"- Set any field you cannot determine to null. Never invent values.\n" +
			"- Balances must be plain numbers without currency symbols or thousands separators.\n" +
			"- Return ONLY raw JSON objects, one per document.\n" +
			"- Do NOT wrap the response in code fences or Markdown.\n\n"

	return instruction + "Input documents:\n\n" + chunkText
}

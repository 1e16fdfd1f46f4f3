package optimizer

import "fmt"

// optimizePrompt 生成简历改写提示词，要求严格 JSON 输出。
func optimizePrompt(candidateProfile, jobDescription string) string {
	return fmt.Sprintf(`You are an expert Resume Optimizer and Career Coach. Your task is to rewrite a candidate's resume to perfectly align with a specific Job Description (JD).

**Input:**
1. **Candidate Profile/Resume:**
%s

2. **Job Description:**
%s

**Instructions:**
1. **Analyze**: Compare the candidate's profile against the JD. Identify missing keywords, skills, and qualifications.
2. **Rewrite**:
   - Rewrite the "Professional Summary" to be high-impact and relevant to the JD.
   - Rewrite distinct bullet points in "Professional Experience" using the STAR method (Situation, Task, Action, Result) and strong action verbs. Quantify achievements where possible.
   - Ensure keywords from the JD are naturally integrated.
3. **Format**: The "optimizedResume" field MUST be in clean Markdown format. Do NOT use generic placeholders like "[Your Name]". Use the name and contact info from the provided Candidate Profile.

**IMPORTANT: JSON Requirements:**
- You MUST return a valid JSON object.
- Escape all special characters, especially newlines (\n) and double quotes (\") within string values.
- Do NOT include any text before or after the JSON object.

**Output Structure:**
{
    "originalScore": number (0-100),
    "matchScore": number (0-100),
    "missingKeywords": string[] (3-5 items),
    "optimizedResume": "Complete Markdown string",
    "commitedChanges": string[] (3-4 items)
}`, candidateProfile, jobDescription)
}

// grammarPrompt 生成语法检查提示词，要求返回裸 JSON 数组。
func grammarPrompt(text string) string {
	return fmt.Sprintf(`You are a professional grammar and writing quality checker for resumes. Analyze the following resume text and return a JSON array of issues found.

For each issue, provide:
- "original": the exact text with the error (a short phrase, not the whole sentence)
- "suggestion": the corrected text
- "type": one of "grammar", "spelling", "punctuation", "style", "clarity"
- "explanation": a brief explanation of the issue (1 sentence max)

Rules:
- Only flag REAL errors or meaningful improvements. Do NOT flag proper nouns, company names, technical terms, or abbreviations.
- Do NOT suggest changes to factual content or numbers.
- Focus on grammar mistakes, typos, awkward phrasing, passive voice, weak verbs, and unclear sentences.
- If the text is perfect, return an empty array [].
- Return ONLY raw JSON array, no markdown, no code blocks.

Resume text to check:
"""
%s
"""`, text)
}

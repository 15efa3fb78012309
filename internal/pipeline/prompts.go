package pipeline

import "text/template"

const (
	FlowCompare               = "compareResumeToJobDescription"
	FlowExtractJobTitle       = "extractJobTitle"
	FlowAnalyzeJobDescription = "analyzeJobDescription"
	FlowAnalyzeResume         = "analyzeResume"
	FlowGenerateAdvice        = "generateAdvice"
	FlowGenerateSuggestion    = "generateSuggestion"
)

var prompts = map[string]*template.Template{
	FlowCompare: template.Must(template.New(FlowCompare).Parse(`You are an expert HR analyst. Your task is to analyze the provided job description and resume.

Follow these steps carefully:
1.  Read the job description to understand the required skills and qualifications.
2.  Read the resume to identify the candidate's skills and experience.
3.  Compare the resume against the job description.
4.  Calculate a similarity score from 0 to 100.
5.  Identify which required skills are present in the resume (matchedSkills).
6.  Identify which required skills are missing from the resume (missingSkills).
7.  Generate a helpful, one-paragraph suggestion for how the candidate could improve their resume for this specific job.
8.  Extract the specific job title from the job description.
{{if .JobSkills}}
Skills already extracted from the job description:
{{range .JobSkills}}- {{.}}
{{end}}{{end}}{{if .ResumeSkills}}
Skills already extracted from the resume:
{{range .ResumeSkills}}- {{.}}
{{end}}{{end}}
Job Description:
` + "```" + `
{{.JobDescription}}
` + "```" + `

Resume:
` + "```" + `
{{.Resume}}
` + "```" + `

IMPORTANT: Your final output must be ONLY the JSON object that adheres to the output schema. Do not include any other text, markdown formatting, or explanations.
`)),

	FlowExtractJobTitle: template.Must(template.New(FlowExtractJobTitle).Parse(`You are an expert at extracting the job title from a job description. Please extract just the job title from the following text.

Job Description: {{.JobDescription}}

Return just the job title as {"jobTitle": "..."}. If you cannot determine a job title, return "Unknown".`)),

	FlowAnalyzeJobDescription: template.Must(template.New(FlowAnalyzeJobDescription).Parse(`You are an expert in analyzing job descriptions. Your task is to extract the key skills, qualifications, and responsibilities from the job description provided.

Job Description: {{.JobDescription}}

Return a JSON object with "skills", "qualifications" and "responsibilities" arrays.`)),

	FlowAnalyzeResume: template.Must(template.New(FlowAnalyzeResume).Parse(`You are an expert resume reviewer. Extract the candidate's skills, work experience and education from the resume provided.
Base all reasoning only on the provided text. Do not make up data or assume experience not explicitly mentioned.

Resume: {{.Resume}}

Return a JSON object with "skills", "experience" and "education" arrays.`)),

	FlowGenerateAdvice: template.Must(template.New(FlowGenerateAdvice).Parse(`You are a helpful and experienced career coach. Your goal is to provide constructive, actionable advice to help a job seeker improve their resume.

You will be given a list of skills that are present in a job description but are missing from the candidate's resume.

Based on this list of missing skills, please generate a single paragraph of advice. The advice should be encouraging and suggest ways the candidate can highlight their experience or rephrase parts of their resume to better align with the job description.

For example, you could suggest they "Consider adding a project that demonstrates your experience with [Missing Skill]" or "To better showcase your qualifications, you could highlight your work with [Missing Skill] in your experience section."

Do not just list the missing skills. Provide real, helpful advice.

Missing Skills:
{{range .MissingSkills}}- {{.}}
{{end}}
Return the paragraph as {"advice": "..."}.`)),

	FlowGenerateSuggestion: template.Must(template.New(FlowGenerateSuggestion).Parse(`You are a helpful career coach. Your task is to provide a concise, one-paragraph piece of advice to a user on how to improve their resume based on a list of missing skills.

Missing Skills:
{{range .MissingSkills}}- {{.}}
{{end}}
{{if .MissingSkills}}Based on the missing skills, generate a friendly and encouraging paragraph of advice. For example: "To better align your resume with this job, consider highlighting projects or experiences where you've used skills like {{range $i, $s := .MissingSkills}}{{if $i}}, {{end}}{{$s}}{{end}}. Even adding these keywords can make a big difference!"
{{else}}Your resume looks like a great fit! There are no major skills missing. As a general tip, you could tailor the project descriptions to better match the company's values.
{{end}}
Return the paragraph as {"suggestion": "..."}.`)),
}

type promptData struct {
	JobDescription string
	Resume         string
	JobSkills      []string
	ResumeSkills   []string
	MissingSkills  []string
}

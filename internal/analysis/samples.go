package analysis

// Sample is a ready-made job description and résumé pair for trying the
// matcher without pasting anything.
type Sample struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	JobDescription string `json:"jobDescription"`
	Resume         string `json:"resume"`
}

var Samples = []Sample{
	{
		ID:    "frontend",
		Title: "Senior Frontend Engineer",
		JobDescription: `We are seeking a Senior Frontend Engineer with 5+ years of experience building modern web applications. You will lead development of user-facing features in React, TypeScript and Next.js, keep them fast and scalable, and mentor junior engineers. Strong knowledge of CSS-in-JS libraries such as Emotion or Styled Components is required. Experience with GraphQL and Apollo Client is a big plus. We value a solid grasp of UI/UX principles and care for intuitive interfaces.`,
		Resume: `John Doe

Experience
Lead Frontend Developer, TechCorp (2019-Present)
- Led a team of 4 frontend developers building an e-commerce platform with React and Next.js.
- Built a TypeScript component library documented in Storybook, speeding up feature work by 30%.
- Cut page load times in half through performance work.
- Partnered with designers on complex user interfaces.

Skills
Languages: JavaScript, TypeScript, HTML, CSS
Frameworks: React, Next.js, Redux, Styled Components, Apollo Client
Tools: Git, Webpack, Babel, Storybook, Figma`,
	},
	{
		ID:    "data-scientist",
		Title: "Data Scientist",
		JobDescription: `We are looking for a Data Scientist with a strong background in statistical analysis, machine learning and data modeling. You will work with large datasets to extract insights, build predictive models and inform product decisions. Proficiency in Python and Pandas, NumPy, Scikit-learn and TensorFlow or PyTorch is essential. SQL and visualization with Matplotlib or Seaborn are required. A Master's degree or PhD in a quantitative field is preferred.`,
		Resume: `Jane Smith

Education
M.S. in Computer Science, Stanford University

Experience
Data Scientist, Innovate Inc. (2020-Present)
- Built churn prediction models that reduced customer churn by 15%.
- Ran exploratory analysis on user behaviour to find product opportunities.
- Maintained data pipelines in Python and SQL.

Skills
Languages: Python, R, SQL
Libraries: Pandas, NumPy, Scikit-learn, TensorFlow, Matplotlib
Tools: Jupyter, Git, Docker, AWS SageMaker`,
	},
	{
		ID:    "product-manager",
		Title: "Product Manager",
		JobDescription: `We are hiring an experienced Product Manager to own the roadmap and delivery of our core product. You will define requirements, prioritize features and work with engineering, design and marketing to ship. We expect a track record of successful launches, excellent communication and a deep understanding of agile methods. You must turn customer needs into clear, actionable product specs. B2B SaaS experience is a plus.`,
		Resume: `Peter Jones

Experience
Product Manager, SaaS Solutions (2018-Present)
- Launched three major features that grew monthly recurring revenue by 20%.
- Owned the backlog and ran sprint planning in Jira using Scrum.
- Ran user research and competitive analysis to shape the roadmap.

Skills
Methodologies: Agile, Scrum, Lean
Tools: Jira, Confluence, Figma, Mixpanel
Core: Product Strategy, Roadmapping, User Research, A/B Testing, Go-to-Market`,
	},
}

func SampleByID(id string) (Sample, bool) {
	for _, s := range Samples {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}

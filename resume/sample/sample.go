// Package sample holds the fixed example resume used by simulated generation.
package sample

import "resume-formatter/resume/model"

// StaticURL is the pre-rendered sample PDF shown before any generation.
const StaticURL = "/samples/govstar-sample.pdf"

// Parsed returns a fresh copy of the sample resume.
func Parsed() *model.ParsedResume {
	return &model.ParsedResume{
		Name:     "Jordan Taylor",
		Title:    "Senior Software Engineer",
		Email:    "jordan.taylor@email.com",
		Phone:    "(555) 123-4567",
		Location: "Austin, TX",
		Links: []model.Link{
			{Label: "LinkedIn", URL: "https://www.linkedin.com/in/jordantaylor"},
			{Label: "GitHub", URL: "https://github.com/jtay"},
		},
		Summary: "Senior engineer with 7+ years building high-impact web apps. Focused on TypeScript, React, and scalable APIs; passionate about elegant DX and measurable outcomes.",
		Skills: []string{
			"TypeScript", "React", "Next.js", "Node.js", "GraphQL", "AWS",
			"PostgreSQL", "Docker", "CI/CD", "Testing", "Jest", "Playwright",
		},
		Experience: []model.Experience{
			{
				Company:  "Acme Corp",
				Role:     "Senior Software Engineer",
				Range:    "2021–Present",
				Location: "Remote",
				Bullets: []string{
					"Led migration to TypeScript across 20+ services, cutting runtime errors by 35%.",
					"Shipped design-system components in React/MUI, reducing feature build time by ~25%.",
					"Designed GraphQL gateway with caching that improved p95 latency from 680ms → 230ms.",
					"Mentored 4 engineers; instituted PR guidelines and CI quality gates.",
				},
			},
			{
				Company:  "Widget Co",
				Role:     "Software Engineer",
				Range:    "2018–2021",
				Location: "Austin, TX",
				Bullets: []string{
					"Built customer onboarding flow (Next.js), improving conversion by 14%.",
					"Implemented Postgres partitioning and indexes; 4× faster reporting queries.",
					"Containerized legacy services and standardized local dev with Docker Compose.",
					"Owned test strategy (Jest/Playwright) increasing coverage from 42% → 78%.",
				},
			},
		},
		Education: &model.Education{School: "University of Texas at Austin", Degree: "B.S. Computer Science", Year: "2018"},
	}
}

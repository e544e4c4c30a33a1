package ingest

import "jobpulse/internal/domain/job"

// Curated records served when a source has no live endpoint or its live
// fetch comes back empty. They flow through the same normalize and upsert
// path as live records and expire on the same schedule.

func githubSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "gh-sample-1",
			Title:          "Senior Full Stack Developer",
			Company:        "GitHub Inc",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      120000,
			SalaryMax:      180000,
			Currency:       "USD",
			SkillTags:      []string{"JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL"},
			Description:    "We're looking for a senior full stack developer to join our team...",
			URL:            "https://github.com/careers/senior-full-stack",
		},
		{
			ExternalID:     "gh-sample-2",
			Title:          "DevOps Engineer",
			Company:        "GitHub Inc",
			Location:       "San Francisco, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      130000,
			SalaryMax:      190000,
			Currency:       "USD",
			SkillTags:      []string{"Kubernetes", "Docker", "AWS", "Terraform", "Python"},
			Description:    "Join our infrastructure team to build and maintain...",
			URL:            "https://github.com/careers/devops-engineer",
		},
		{
			ExternalID:     "gh-sample-3",
			Title:          "Data Scientist",
			Company:        "GitHub Inc",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      115000,
			SalaryMax:      165000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "Pandas", "SQL", "Machine Learning", "TensorFlow"},
			Description:    "Work with product teams to turn usage data into decisions...",
			URL:            "https://github.com/careers/data-scientist",
		},
	}
}

func wellfoundSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "wf-sample-1",
			Title:          "Full Stack Engineer",
			Company:        "TechStartup Inc",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      100000,
			SalaryMax:      150000,
			Currency:       "USD",
			SkillTags:      []string{"React", "Node.js", "TypeScript", "PostgreSQL", "AWS"},
			Description:    "Build product features end to end at an early-stage startup...",
			URL:            "https://wellfound.com/jobs/full-stack-engineer",
		},
		{
			ExternalID:     "wf-sample-2",
			Title:          "Senior Backend Engineer",
			Company:        "AI Startup",
			Location:       "San Francisco, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      130000,
			SalaryMax:      185000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "FastAPI", "PostgreSQL", "Redis", "Docker"},
			Description:    "Own the services behind our inference platform...",
			URL:            "https://wellfound.com/jobs/senior-backend-engineer",
		},
		{
			ExternalID:     "wf-sample-3",
			Title:          "Frontend Engineer - React",
			Company:        "FinTech Startup",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      110000,
			SalaryMax:      160000,
			Currency:       "USD",
			SkillTags:      []string{"React", "TypeScript", "CSS", "GraphQL", "Jest"},
			Description:    "Create beautiful user experiences for our fintech platform...",
			URL:            "https://wellfound.com/jobs/frontend-engineer-react",
		},
		{
			ExternalID:     "wf-sample-4",
			Title:          "Machine Learning Engineer",
			Company:        "ML Startup",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      140000,
			SalaryMax:      200000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "PyTorch", "MLOps", "Kubernetes", "SQL"},
			Description:    "Train and ship models that power our core product...",
			URL:            "https://wellfound.com/jobs/machine-learning-engineer",
		},
	}
}

func linkedinSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "li-sample-1",
			Title:          "Senior Software Engineer",
			Company:        "Microsoft",
			Location:       "Redmond, WA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      150000,
			SalaryMax:      200000,
			Currency:       "USD",
			SkillTags:      []string{"C#", ".NET", "Azure", "Kubernetes", "Microservices"},
			Description:    "Join Microsoft's cloud team to build next-generation solutions...",
			URL:            "https://www.linkedin.com/jobs/view/li-sample-1",
		},
		{
			ExternalID:     "li-sample-2",
			Title:          "Machine Learning Engineer",
			Company:        "Google",
			Location:       "Mountain View, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      160000,
			SalaryMax:      220000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "TensorFlow", "PyTorch", "Kubernetes", "GCP"},
			Description:    "Build ML models at scale for Google products...",
			URL:            "https://www.linkedin.com/jobs/view/li-sample-2",
		},
		{
			ExternalID:     "li-sample-3",
			Title:          "Frontend Engineer - React",
			Company:        "Airbnb",
			Location:       "San Francisco, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      130000,
			SalaryMax:      180000,
			Currency:       "USD",
			SkillTags:      []string{"React", "TypeScript", "JavaScript", "CSS", "GraphQL"},
			Description:    "Build beautiful user experiences for millions of travelers...",
			URL:            "https://www.linkedin.com/jobs/view/li-sample-3",
		},
		{
			ExternalID:     "li-sample-4",
			Title:          "Data Engineer",
			Company:        "Netflix",
			Location:       "Los Gatos, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      145000,
			SalaryMax:      195000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "Spark", "Kafka", "AWS", "SQL"},
			Description:    "Build data pipelines that power recommendations...",
			URL:            "https://www.linkedin.com/jobs/view/li-sample-4",
		},
		{
			ExternalID:     "li-sample-5",
			Title:          "DevOps Engineer",
			Company:        "Amazon",
			Location:       "Seattle, WA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      135000,
			SalaryMax:      185000,
			Currency:       "USD",
			SkillTags:      []string{"AWS", "Terraform", "Docker", "Kubernetes", "Python"},
			Description:    "Manage infrastructure for large-scale cloud services...",
			URL:            "https://www.linkedin.com/jobs/view/li-sample-5",
		},
	}
}

func stackoverflowSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "so-sample-1",
			Title:          "Backend Engineer - Python/Django",
			Company:        "Stack Overflow",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      130000,
			SalaryMax:      170000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "Django", "PostgreSQL", "Redis", "AWS"},
			Description:    "Join our backend team to build scalable systems...",
			URL:            "https://stackoverflow.com/jobs/so-sample-1",
		},
		{
			ExternalID:     "so-sample-2",
			Title:          "Frontend Developer - React",
			Company:        "Stack Overflow",
			Location:       "New York, NY",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      110000,
			SalaryMax:      150000,
			Currency:       "USD",
			SkillTags:      []string{"React", "TypeScript", "CSS", "JavaScript", "Redux"},
			Description:    "We're looking for a frontend developer...",
			URL:            "https://stackoverflow.com/jobs/so-sample-2",
		},
		{
			ExternalID:     "so-sample-3",
			Title:          "DevOps Engineer",
			Company:        "Tech Solutions Inc",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      120000,
			SalaryMax:      160000,
			Currency:       "USD",
			SkillTags:      []string{"Kubernetes", "Docker", "Terraform", "AWS", "Python"},
			Description:    "Help us build and maintain our cloud infrastructure...",
			URL:            "https://stackoverflow.com/jobs/so-sample-3",
		},
		{
			ExternalID:     "so-sample-4",
			Title:          "Mobile Developer - iOS/Swift",
			Company:        "Mobile First Co",
			Location:       "San Francisco, CA",
			RemoteHint:     "onsite",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      125000,
			SalaryMax:      165000,
			Currency:       "USD",
			SkillTags:      []string{"Swift", "iOS", "UIKit", "SwiftUI", "Xcode"},
			Description:    "Build polished iOS applications...",
			URL:            "https://stackoverflow.com/jobs/so-sample-4",
		},
	}
}

func glassdoorSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "gd-sample-1",
			Title:          "Software Engineer III",
			Company:        "Apple",
			Location:       "Cupertino, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      155000,
			SalaryMax:      210000,
			Currency:       "USD",
			SkillTags:      []string{"Swift", "Objective-C", "iOS", "macOS", "C++"},
			Description:    "Join Apple's software engineering team...",
			URL:            "https://www.glassdoor.com/job-listing/gd-sample-1",
		},
		{
			ExternalID:     "gd-sample-2",
			Title:          "Senior Data Scientist",
			Company:        "Uber",
			Location:       "San Francisco, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      150000,
			SalaryMax:      200000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "R", "Machine Learning", "SQL", "Spark"},
			Description:    "Use data science to improve rider and driver experiences...",
			URL:            "https://www.glassdoor.com/job-listing/gd-sample-2",
		},
		{
			ExternalID:     "gd-sample-3",
			Title:          "Cloud Solutions Architect",
			Company:        "Salesforce",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      140000,
			SalaryMax:      190000,
			Currency:       "USD",
			SkillTags:      []string{"AWS", "Azure", "Salesforce", "Architecture", "Cloud"},
			Description:    "Design cloud solutions for enterprise customers...",
			URL:            "https://www.glassdoor.com/job-listing/gd-sample-3",
		},
		{
			ExternalID:     "gd-sample-4",
			Title:          "Full Stack Developer",
			Company:        "Stripe",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      130000,
			SalaryMax:      175000,
			Currency:       "USD",
			SkillTags:      []string{"Ruby", "React", "TypeScript", "PostgreSQL", "Redis"},
			Description:    "Build payment infrastructure for the internet...",
			URL:            "https://www.glassdoor.com/job-listing/gd-sample-4",
		},
		{
			ExternalID:     "gd-sample-5",
			Title:          "Security Engineer",
			Company:        "Cloudflare",
			Location:       "Austin, TX",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      135000,
			SalaryMax:      180000,
			Currency:       "USD",
			SkillTags:      []string{"Security", "Python", "Go", "Networking", "Cryptography"},
			Description:    "Protect the internet as a security engineer...",
			URL:            "https://www.glassdoor.com/job-listing/gd-sample-5",
		},
	}
}

func indeedSampleJobs() []RawJob {
	return []RawJob{
		{
			ExternalID:     "indeed-sample-1",
			Title:          "Senior Software Engineer",
			Company:        "Tech Company Inc",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "senior",
			SalaryMin:      120000,
			SalaryMax:      160000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "JavaScript", "React", "AWS"},
			Description:    "We are looking for a senior software engineer...",
			URL:            "https://www.indeed.com/viewjob?jk=indeed-sample-1",
		},
		{
			ExternalID:     "indeed-sample-2",
			Title:          "Full Stack Developer",
			Company:        "Startup XYZ",
			Location:       "San Francisco, CA",
			RemoteHint:     "hybrid",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      100000,
			SalaryMax:      140000,
			Currency:       "USD",
			SkillTags:      []string{"Node.js", "React", "MongoDB", "Docker"},
			Description:    "Join our growing team as a full stack developer...",
			URL:            "https://www.indeed.com/viewjob?jk=indeed-sample-2",
		},
		{
			ExternalID:     "indeed-sample-3",
			Title:          "Data Scientist",
			Company:        "Analytics Corp",
			Location:       "Remote",
			RemoteHint:     "remote",
			TypeHint:       "full-time",
			ExperienceHint: "mid",
			SalaryMin:      110000,
			SalaryMax:      150000,
			Currency:       "USD",
			SkillTags:      []string{"Python", "Machine Learning", "SQL", "TensorFlow"},
			Description:    "We're seeking a data scientist to join our team...",
			URL:            "https://www.indeed.com/viewjob?jk=indeed-sample-3",
		},
	}
}

func sampleBatch(records []RawJob, limit int) Batch {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	out := make([]RawJob, len(records))
	copy(out, records)
	return Batch{Records: out, Mode: job.SourceModeFallback}
}

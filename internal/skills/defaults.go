package skills

import "github.com/jonathan/resume-matcher/internal/types"

// defaultPlurals maps plural compound terms to their singular form
var defaultPlurals = map[string]string{
	"apis":          "api",
	"microservices": "microservice",
	"databases":     "database",
	"frameworks":    "framework",
	"llms":          "llm",
	"services":      "service",
	"pipelines":     "pipeline",
	"structures":    "structure",
	"algorithms":    "algorithm",
	"containers":    "container",
	"sdks":          "sdk",
	"webhooks":      "webhook",
}

// defaultDenylist holds pairs that satisfy the looser matching rules but must
// never be considered the same skill.
var defaultDenylist = [][2]string{
	{"java", "javascript"},
	{"js", "javascript"},
	{"go", "golang"},
	{"java", "javafx"},
	{"c", "c++"},
	{"c", "c#"},
	{"c++", "c#"},
	{"sql", "nosql"},
	{"sql", "mysql"},
	{"sql", "mssql"},
	{"sql", "tsql"},
	{"script", "javascript"},
	{"script", "typescript"},
	{"react", "preact"},
	{"spring", "springs"},
	{"net", ".net"},
	{"ruby", "rubymine"},
	{"scala", "scalar"},
	{"css", "scss"},
	{"vue", "vuex"},
	{"node", "nodemon"},
}

var defaultClusters = []Cluster{
	// frontend
	{Name: "JavaScript", Category: types.CategoryFrontend, Aliases: []string{"javascript", "ecmascript", "es6", "vanilla javascript"}},
	{Name: "TypeScript", Category: types.CategoryFrontend, Aliases: []string{"typescript", "ts"}, Ambiguous: []string{"ts"}},
	{Name: "React", Category: types.CategoryFrontend, Aliases: []string{"react", "reactjs", "react.js"}},
	{Name: "React Native", Category: types.CategoryFrontend, Aliases: []string{"react native", "react-native"}},
	{Name: "Angular", Category: types.CategoryFrontend, Aliases: []string{"angular", "angularjs", "angular.js"}},
	{Name: "Vue", Category: types.CategoryFrontend, Aliases: []string{"vue", "vuejs", "vue.js"}},
	{Name: "Next.js", Category: types.CategoryFrontend, Aliases: []string{"next.js", "nextjs"}},
	{Name: "Redux", Category: types.CategoryFrontend, Aliases: []string{"redux"}},
	{Name: "HTML", Category: types.CategoryFrontend, Aliases: []string{"html", "html5"}},
	{Name: "CSS", Category: types.CategoryFrontend, Aliases: []string{"css", "css3"}},
	{Name: "Sass", Category: types.CategoryFrontend, Aliases: []string{"sass", "scss"}},
	{Name: "Tailwind CSS", Category: types.CategoryFrontend, Aliases: []string{"tailwind", "tailwindcss", "tailwind css"}},
	{Name: "Bootstrap", Category: types.CategoryFrontend, Aliases: []string{"bootstrap"}},
	{Name: "jQuery", Category: types.CategoryFrontend, Aliases: []string{"jquery"}},

	// backend
	{Name: "Node.js", Category: types.CategoryBackend, Aliases: []string{"node.js", "nodejs", "node"}, Ambiguous: []string{"node"}},
	{Name: "Express", Category: types.CategoryBackend, Aliases: []string{"express", "express.js", "expressjs"}, Ambiguous: []string{"express"}},
	{Name: "Python", Category: types.CategoryBackend, Aliases: []string{"python", "python3", "python 3"}},
	{Name: "Java", Category: types.CategoryBackend, Aliases: []string{"java", "core java", "java se", "java ee"}},
	{Name: "Go", Category: types.CategoryBackend, Aliases: []string{"go"}, Ambiguous: []string{"go"}},
	{Name: "Golang", Category: types.CategoryBackend, Aliases: []string{"golang"}},
	{Name: "C++", Category: types.CategoryBackend, Aliases: []string{"c++", "cpp"}},
	{Name: "C#", Category: types.CategoryBackend, Aliases: []string{"c#", "csharp", "c sharp"}},
	{Name: "C", Category: types.CategoryBackend, Aliases: []string{"c"}, Ambiguous: []string{"c"}},
	{Name: ".NET", Category: types.CategoryBackend, Aliases: []string{".net", "dotnet", ".net core", "dotnet core"}},
	{Name: "ASP.NET", Category: types.CategoryBackend, Aliases: []string{"asp.net", "aspnet", "asp.net core"}},
	{Name: "PHP", Category: types.CategoryBackend, Aliases: []string{"php"}},
	{Name: "Laravel", Category: types.CategoryBackend, Aliases: []string{"laravel"}},
	{Name: "Ruby", Category: types.CategoryBackend, Aliases: []string{"ruby"}},
	{Name: "Ruby on Rails", Category: types.CategoryBackend, Aliases: []string{"ruby on rails", "rails", "ror"}},
	{Name: "Django", Category: types.CategoryBackend, Aliases: []string{"django", "django rest framework", "drf"}},
	{Name: "Flask", Category: types.CategoryBackend, Aliases: []string{"flask"}},
	{Name: "FastAPI", Category: types.CategoryBackend, Aliases: []string{"fastapi", "fast api"}},
	{Name: "Spring Boot", Category: types.CategoryBackend, Aliases: []string{"spring boot", "springboot", "spring"}, Ambiguous: []string{"spring"}},
	{Name: "Kotlin", Category: types.CategoryBackend, Aliases: []string{"kotlin"}},
	{Name: "Swift", Category: types.CategoryBackend, Aliases: []string{"swift"}, Ambiguous: []string{"swift"}},
	{Name: "Rust", Category: types.CategoryBackend, Aliases: []string{"rust"}, Ambiguous: []string{"rust"}},
	{Name: "Scala", Category: types.CategoryBackend, Aliases: []string{"scala"}},
	{Name: "GraphQL", Category: types.CategoryBackend, Aliases: []string{"graphql"}},
	{Name: "REST API", Category: types.CategoryBackend, Aliases: []string{"rest api", "rest", "restful", "restful api", "restful service"}, Ambiguous: []string{"rest"}},
	{Name: "gRPC", Category: types.CategoryBackend, Aliases: []string{"grpc"}},
	{Name: "Microservices", Category: types.CategoryBackend, Aliases: []string{"microservice", "microservice architecture"}},

	// data
	{Name: "SQL", Category: types.CategoryData, Aliases: []string{"sql"}},
	{Name: "PostgreSQL", Category: types.CategoryData, Aliases: []string{"postgresql", "postgres", "psql"}},
	{Name: "MySQL", Category: types.CategoryData, Aliases: []string{"mysql"}},
	{Name: "SQL Server", Category: types.CategoryData, Aliases: []string{"sql server", "mssql", "ms sql"}},
	{Name: "Oracle", Category: types.CategoryData, Aliases: []string{"oracle", "oracle db", "pl/sql"}},
	{Name: "SQLite", Category: types.CategoryData, Aliases: []string{"sqlite"}},
	{Name: "MongoDB", Category: types.CategoryData, Aliases: []string{"mongodb", "mongo"}},
	{Name: "NoSQL", Category: types.CategoryData, Aliases: []string{"nosql"}},
	{Name: "Redis", Category: types.CategoryData, Aliases: []string{"redis"}},
	{Name: "Elasticsearch", Category: types.CategoryData, Aliases: []string{"elasticsearch", "elastic search"}},
	{Name: "Apache Spark", Category: types.CategoryData, Aliases: []string{"spark", "apache spark", "pyspark"}},
	{Name: "Hadoop", Category: types.CategoryData, Aliases: []string{"hadoop"}},
	{Name: "Kafka", Category: types.CategoryData, Aliases: []string{"kafka", "apache kafka"}},
	{Name: "Airflow", Category: types.CategoryData, Aliases: []string{"airflow", "apache airflow"}},
	{Name: "Snowflake", Category: types.CategoryData, Aliases: []string{"snowflake"}},
	{Name: "ETL", Category: types.CategoryData, Aliases: []string{"etl", "elt"}},
	{Name: "Pandas", Category: types.CategoryData, Aliases: []string{"pandas"}},
	{Name: "NumPy", Category: types.CategoryData, Aliases: []string{"numpy"}},
	{Name: "Tableau", Category: types.CategoryData, Aliases: []string{"tableau"}},
	{Name: "Power BI", Category: types.CategoryData, Aliases: []string{"power bi", "powerbi"}},
	{Name: "Data Analysis", Category: types.CategoryData, Aliases: []string{"data analysis", "data analytics"}},
	{Name: "Excel", Category: types.CategoryData, Aliases: []string{"excel", "ms excel", "microsoft excel"}, Ambiguous: []string{"excel"}},

	// devops
	{Name: "Docker", Category: types.CategoryDevOps, Aliases: []string{"docker"}},
	{Name: "Kubernetes", Category: types.CategoryDevOps, Aliases: []string{"kubernetes", "k8s"}},
	{Name: "AWS", Category: types.CategoryDevOps, Aliases: []string{"aws", "amazon web services"}},
	{Name: "GCP", Category: types.CategoryDevOps, Aliases: []string{"gcp", "google cloud", "google cloud platform"}},
	{Name: "Azure", Category: types.CategoryDevOps, Aliases: []string{"azure", "microsoft azure"}},
	{Name: "Terraform", Category: types.CategoryDevOps, Aliases: []string{"terraform"}},
	{Name: "Ansible", Category: types.CategoryDevOps, Aliases: []string{"ansible"}},
	{Name: "Jenkins", Category: types.CategoryDevOps, Aliases: []string{"jenkins"}},
	{Name: "CI/CD", Category: types.CategoryDevOps, Aliases: []string{"ci/cd", "cicd", "ci cd", "continuous integration"}},
	{Name: "GitHub Actions", Category: types.CategoryDevOps, Aliases: []string{"github actions"}},
	{Name: "Linux", Category: types.CategoryDevOps, Aliases: []string{"linux", "unix"}},
	{Name: "Bash", Category: types.CategoryDevOps, Aliases: []string{"bash", "shell scripting", "shell script"}},
	{Name: "Nginx", Category: types.CategoryDevOps, Aliases: []string{"nginx"}},

	// ai-ml
	{Name: "Machine Learning", Category: types.CategoryAIML, Aliases: []string{"machine learning", "ml"}, Ambiguous: []string{"ml"}},
	{Name: "Deep Learning", Category: types.CategoryAIML, Aliases: []string{"deep learning"}},
	{Name: "NLP", Category: types.CategoryAIML, Aliases: []string{"nlp", "natural language processing"}},
	{Name: "Computer Vision", Category: types.CategoryAIML, Aliases: []string{"computer vision"}},
	{Name: "TensorFlow", Category: types.CategoryAIML, Aliases: []string{"tensorflow"}},
	{Name: "PyTorch", Category: types.CategoryAIML, Aliases: []string{"pytorch"}},
	{Name: "Keras", Category: types.CategoryAIML, Aliases: []string{"keras"}},
	{Name: "scikit-learn", Category: types.CategoryAIML, Aliases: []string{"scikit-learn", "sklearn", "scikit learn"}},
	{Name: "OpenCV", Category: types.CategoryAIML, Aliases: []string{"opencv"}},
	{Name: "LLM", Category: types.CategoryAIML, Aliases: []string{"llm", "large language model"}},
	{Name: "Generative AI", Category: types.CategoryAIML, Aliases: []string{"generative ai", "genai", "gen ai"}},
	{Name: "LangChain", Category: types.CategoryAIML, Aliases: []string{"langchain"}},
	{Name: "Hugging Face", Category: types.CategoryAIML, Aliases: []string{"hugging face", "huggingface", "transformers"}},

	// tools
	{Name: "Git", Category: types.CategoryTools, Aliases: []string{"git"}},
	{Name: "GitHub", Category: types.CategoryTools, Aliases: []string{"github"}},
	{Name: "GitLab", Category: types.CategoryTools, Aliases: []string{"gitlab"}},
	{Name: "Jira", Category: types.CategoryTools, Aliases: []string{"jira"}},
	{Name: "Postman", Category: types.CategoryTools, Aliases: []string{"postman"}},
	{Name: "Figma", Category: types.CategoryTools, Aliases: []string{"figma"}},
	{Name: "VS Code", Category: types.CategoryTools, Aliases: []string{"vs code", "vscode", "visual studio code"}},
	{Name: "Agile", Category: types.CategoryTools, Aliases: []string{"agile", "scrum", "kanban"}},

	// soft
	{Name: "Communication", Category: types.CategorySoft, Aliases: []string{"communication", "communication skill", "verbal communication", "written communication"}},
	{Name: "Leadership", Category: types.CategorySoft, Aliases: []string{"leadership", "team leadership"}},
	{Name: "Teamwork", Category: types.CategorySoft, Aliases: []string{"teamwork", "team work", "collaboration", "team player"}},
	{Name: "Problem Solving", Category: types.CategorySoft, Aliases: []string{"problem solving", "problem-solving"}},
	{Name: "Time Management", Category: types.CategorySoft, Aliases: []string{"time management"}},
	{Name: "Critical Thinking", Category: types.CategorySoft, Aliases: []string{"critical thinking"}},
}

// defaultTable is the built-in alias table. It is never mutated after package
// initialization.
var defaultTable = NewTable(defaultClusters, defaultDenylist, defaultPlurals)

// DefaultTable returns the built-in alias table.
func DefaultTable() *Table {
	return defaultTable
}

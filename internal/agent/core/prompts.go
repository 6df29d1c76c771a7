package core

// DefaultReportStructure guides the planner when the caller supplies none.
const DefaultReportStructure = `The report structure should focus on breaking down the user-provided topic
and building a comprehensive report in markdown using the following format:

1. Introduction (no web search needed)
   - Brief overview of the topic area

2. Main Body Sections:
   - Each section should focus on a sub-topic of the user-provided topic
   - Include any key concepts and definitions
   - Provide real-world examples or case studies where applicable

3. Conclusion (no web search needed)
   - Aim for 1 structural element (either a list or table) that distills the main body sections
   - Provide a concise summary of the report`

const reportPlanQueryPrompt = `You are an expert technical writer, helping to plan a report.

The report will be focused on the following topic:
%[1]s

The report structure will follow these guidelines:
%[2]s

Your goal is to generate %[3]d search queries that will help gather comprehensive information for planning the report sections.

The queries should:
1. Be related to the topic of the report
2. Help satisfy the requirements specified in the report organization

Make the queries specific enough to find high-quality, relevant sources while covering the breadth needed for the report structure.`

const reportPlanQueryUser = "Generate search queries that will help with planning the sections of the report."

const reportPlanSectionsPrompt = `You are an expert technical writer, helping to plan a report.

Your goal is to generate the outline of the sections of the report.

The overall topic of the report is:
%[1]s

The report should follow this organization:
%[2]s

You should reflect on this information to plan the sections of the report:
%[3]s

Now, generate the sections of the report. Each section should have the following fields:
- name: Name for this section of the report.
- description: Brief overview of the main topics and concepts to be covered in this section.
- research: Whether to perform web research for this section of the report.
- plan: Brief plan of how the section will be written.
- content: The content of the section, which you will leave blank for now.

Consider which sections require web research. For example, introduction and conclusion will not require research because they will distill information from other parts of the report.
Section names must be unique.`

const reportPlanSectionsUser = "Generate the sections of the report. Your response must include a 'sections' field containing a list of sections. Each section must have: name, description, plan, research, and content fields."

const sectionQueryPrompt = `Your goal is to generate targeted web search queries that will gather comprehensive information for writing a technical report section.

Topic for this section:
%[1]s

When generating %[2]d search queries, ensure they:
1. Cover different aspects of the topic (e.g., core features, real-world applications, technical architecture)
2. Include specific technical terms related to the topic
3. Target recent information by including year markers where relevant
4. Look for comparisons or differentiators from similar technologies/approaches
5. Search for both official documentation and practical implementation examples

Your queries should be specific enough to avoid generic results and technical enough to capture detailed implementation information.`

const sectionQueryUser = "Generate search queries on the provided topic."

const sectionWriterPrompt = `You are an expert technical writer crafting one section of a technical report.

Title for the section:
%[1]s

Topic for this section:
%[2]s

Guidelines for writing:
- Stay between 150-200 words
- Use simple, clear language in short paragraphs (2-3 sentences max)
- Start with your most important insight in **bold**
- Include at most one focused table or list, only if it clarifies a point
- Use ## for the section title (Markdown format)
- End with ### Sources listing each source as: Title : URL

Use this source material to help write the section:
%[3]s

Before submitting, check that every claim is grounded in the provided sources.`

const sectionWriterUser = "Generate a report section based on the provided sources."

const finalSectionWriterPrompt = `You are an expert technical writer crafting a section that synthesizes information from the rest of the report.

Section to write:
%[1]s

Description of the section:
%[2]s

Available report content:
%[3]s

Guidelines:
- For an introduction: use # for the report title, stay between 50-100 words, no structural elements and no sources section.
- For a conclusion: use ## for the section title, stay between 100-150 words, include at most one table or short list that distills the report, and no sources section.
- Write in Markdown and focus on concrete details.`

const finalSectionWriterUser = "Craft a report section based on the provided sources."

const noSearchResults = "No search results available."

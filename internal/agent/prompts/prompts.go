package prompts

// *** Report Prompts ***

var reportUserPromptTemplate = `As a software development expert, write only a general summary of the changes for %s.
Here are the commits made during this period:
%s
Format the summary in a professional and concise way, focusing on the most important changes and their impact.
The summary must be clear and easy to understand, even for non-technical readers.
Use markdown for structure.

LANGUAGE INSTRUCTIONS:
%s
`

var reportCommitTemplate = `
%s: %s
%s: %s
%s: %s
%s: %s
`

// *** Commit Analysis Prompts ***

var commitAnalysisSystemPromptTemplate = `You are a senior developer who reviews git history.
You rate commits from 0 to 10 and always answer with a single JSON object.

LANGUAGE INSTRUCTIONS:
%s
`

var commitAnalysisUserPromptTemplate = `Analyze this git commit:
Title: %s
Message: %s
Changes: %d files modified

Rate this commit and suggest improvements, considering:
1. Commit message clarity and completeness
2. Size and scope of changes
3. Following git commit best practices
4. Potential impact and risks

Provide a better commit message in %s, following the conventional commits format (feat, fix, docs, style, refactor, test, chore).
The commit message should be professional and clear, using HTML formatting for better readability.
Use <h2> tags for the type and scope, and <ul>/<li> for details.

Format your response as JSON matching this schema:
%s

Field meanings:
- score: rating of the commit
- analysis: detailed explanation in %s
- betterCommitMessage: suggested commit message in conventional commits format with HTML tags (<h2>, <ul>, <li>, <p>)
- explanation: explanation in %s of why this commit message is better
`

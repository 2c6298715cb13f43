package utils

import (
	"context"
	"fmt"
)

const demoReplyTemplate = `Hello%s I'm EezLegal AI, your professional legal assistant.

I received your message: "%s"

While I'm currently in demo mode, I'm designed to help you with:
• Legal questions and general guidance
• Document review and analysis
• Contract interpretation
• Legal research assistance
• Compliance questions
• Legal procedure explanations

**Important:** I provide legal information and guidance, but I cannot replace professional legal advice from a licensed attorney. For specific legal matters, please consult with a qualified lawyer.

How can I assist you with your legal needs today?`

// DemoAnalysis stands in for document analysis when no provider is configured.
const DemoAnalysis = `Document analysis is not available in demo mode.

Configure an OpenAI or Gemini API key to receive a summary of key terms, potential risks and recommendations for this document.`

// DemoClient answers without any provider so the app runs without API keys.
type DemoClient struct{}

func NewDemoClient() *DemoClient {
	return &DemoClient{}
}

func (DemoClient) Complete(_ context.Context, req CompletionRequest) (*Completion, error) {
	greeting := ""
	if req.UserName != "" {
		greeting = " " + req.UserName + ","
	}
	return &Completion{
		Content: fmt.Sprintf(demoReplyTemplate, greeting, lastUserMessage(req.Messages)),
		Model:   DemoModel,
	}, nil
}

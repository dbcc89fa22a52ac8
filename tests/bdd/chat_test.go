package bdd

import "github.com/cucumber/godog"

// Feature: Conversation messaging
//   In order to stay motivated together
//   As players in the same challenge
//   I want to chat in my conversations and share photos

//   Background:
//     Given "alice" has logged in with token "tokenA"
//     And "bob" has logged in with token "tokenB"
//     And a conversation "Morning Runners" exists with "alice" and "bob" as participants

//   Scenario: Entering a conversation shows its history
//     Given "Morning Runners" already contains the message "welcome!"
//     When "alice" enters "Morning Runners"
//     Then "alice" should see the message "welcome!"

//   Scenario: Sending and receiving a message
//     Given "alice" and "bob" have entered "Morning Runners"
//     When "alice" sends the message "5k done before breakfast"
//     Then "bob" should see the message "5k done before breakfast"

//   Scenario: Sharing a photo
//     Given "alice" has entered "Morning Runners"
//     When "alice" uploads the photo "after_run.jpg" of 2 MB
//     Then the conversation should show an image attachment from "alice"

//   Scenario: Oversized uploads are rejected
//     When "alice" uploads the photo "marathon.mov" of 51 MB
//     Then the upload should be rejected as too large

//   Scenario: Outsiders cannot read a conversation
//     When "mallory" enters "Morning Runners"
//     Then the conversation should appear not to exist

func hasLoggedInWithToken(arg1, arg2 string) error {
	return godog.ErrPending
}

func aConversationExistsWithAndAsParticipants(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func alreadyContainsTheMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func enters(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldSeeTheMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func andHaveEntered(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func sendsTheMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func uploadsThePhotoOfMB(arg1, arg2 string, arg3 int) error {
	return godog.ErrPending
}

func theConversationShouldShowAnImageAttachmentFrom(arg1 string) error {
	return godog.ErrPending
}

func theUploadShouldBeRejectedAsTooLarge() error {
	return godog.ErrPending
}

func theConversationShouldAppearNotToExist() error {
	return godog.ErrPending
}

func InitializeChatScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" has logged in with token "([^"]*)"$`, hasLoggedInWithToken)
	ctx.Step(`^a conversation "([^"]*)" exists with "([^"]*)" and "([^"]*)" as participants$`, aConversationExistsWithAndAsParticipants)
	ctx.Step(`^"([^"]*)" already contains the message "([^"]*)"$`, alreadyContainsTheMessage)
	ctx.Step(`^"([^"]*)" enters "([^"]*)"$`, enters)
	ctx.Step(`^"([^"]*)" should see the message "([^"]*)"$`, shouldSeeTheMessage)
	ctx.Step(`^"([^"]*)" and "([^"]*)" have entered "([^"]*)"$`, andHaveEntered)
	ctx.Step(`^"([^"]*)" sends the message "([^"]*)"$`, sendsTheMessage)
	ctx.Step(`^"([^"]*)" uploads the photo "([^"]*)" of (\d+) MB$`, uploadsThePhotoOfMB)
	ctx.Step(`^the conversation should show an image attachment from "([^"]*)"$`, theConversationShouldShowAnImageAttachmentFrom)
	ctx.Step(`^the upload should be rejected as too large$`, theUploadShouldBeRejectedAsTooLarge)
	ctx.Step(`^the conversation should appear not to exist$`, theConversationShouldAppearNotToExist)
}

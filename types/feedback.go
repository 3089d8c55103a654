package types

// Subject is the notification subject used for every feedback submission.
const Subject = "New Feedback Submission"

// TimestampLayout renders created_at as ISO-8601 with microseconds and a
// numeric UTC offset, e.g. 2025-03-01T12:00:00.123456+00:00.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// FeedbackSubmission is the untrusted form payload.
type FeedbackSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FeedbackRecord is the persisted representation of one submission. It is
// handed to collaborators by value.
type FeedbackRecord struct {
	ID        string `json:"id" dynamodbav:"id" bson:"_id"`
	Name      string `json:"name" dynamodbav:"name" bson:"name"`
	Email     string `json:"email" dynamodbav:"email" bson:"email"`
	Message   string `json:"message" dynamodbav:"message" bson:"message"`
	CreatedAt string `json:"created_at" dynamodbav:"created_at" bson:"created_at"`
}

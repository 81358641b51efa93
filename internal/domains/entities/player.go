package entities

type PlayerStats struct {
	PlayerId string `dynamodbav:"PlayerId" json:"playerId"`
	Wins     int    `dynamodbav:"Wins" json:"wins"`
	Losses   int    `dynamodbav:"Losses" json:"losses"`
	Rating   int    `dynamodbav:"Rating" json:"rating"`
}

package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/codeduel-io/codeduel/internal/domains/entities"
)

var ErrPlayerStatsNotFound = fmt.Errorf("player stats not found")

// PersistMatchResult writes the terminal record of a duel.
func (client *Client) PersistMatchResult(ctx context.Context, result entities.MatchResult) error {
	av, err := attributevalue.MarshalMap(result)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.MatchResultsTableName,
		Item:      av,
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdatePlayerStats bumps the aggregate win/loss counter and applies the
// configured rating delta. Draws never reach this path.
func (client *Client) UpdatePlayerStats(ctx context.Context, playerId string, isWinner bool) error {
	field := "Losses"
	ratingDelta := client.cfg.LossRatingDelta
	if isWinner {
		field = "Wins"
		ratingDelta = client.cfg.WinRatingDelta
	}
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.PlayerStatsTableName,
		Key: map[string]types.AttributeValue{
			"PlayerId": &types.AttributeValueMemberS{
				Value: playerId,
			},
		},
		UpdateExpression: aws.String("ADD #field :one, Rating :ratingDelta"),
		ExpressionAttributeNames: map[string]string{
			"#field": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":         &types.AttributeValueMemberN{Value: "1"},
			":ratingDelta": &types.AttributeValueMemberN{Value: strconv.Itoa(ratingDelta)},
		},
	})
	if err != nil {
		return err
	}
	return nil
}

// GetPlayerStats reads a player's aggregate record.
func (client *Client) GetPlayerStats(ctx context.Context, playerId string) (entities.PlayerStats, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.PlayerStatsTableName,
		Key: map[string]types.AttributeValue{
			"PlayerId": &types.AttributeValueMemberS{
				Value: playerId,
			},
		},
	})
	if err != nil {
		return entities.PlayerStats{}, err
	}
	if output.Item == nil {
		return entities.PlayerStats{}, ErrPlayerStatsNotFound
	}
	var stats entities.PlayerStats
	if err := attributevalue.UnmarshalMap(output.Item, &stats); err != nil {
		return entities.PlayerStats{}, err
	}
	return stats, nil
}

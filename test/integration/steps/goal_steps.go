package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/domain/entity"
	"github.com/driverlog/backend/internal/integration/adapters"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// registerGoalSteps registers the goal domain step definitions.
func registerGoalSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the current time is "([^"]*)"$`, theCurrentTimeIs)
	ctx.Step(`^a driver is authenticated$`, aDriverIsAuthenticated)
	ctx.Step(`^another driver owns a vehicle$`, anotherDriverOwnsAVehicle)
	ctx.Step(`^the driver logged a journey on "([^"]*)" earning (\d+) cents over (\d+) km$`, theDriverLoggedAJourney)
	ctx.Step(`^the driver has an active "([^"]*)" goal targeting (\d+) from "([^"]*)" to "([^"]*)"$`, theDriverHasAnActiveGoal)
	ctx.Step(`^I create a goal scoped to the other driver's vehicle$`, iCreateAGoalScopedToTheOtherDriversVehicle)
	ctx.Step(`^I send a "([^"]*)" request to the goal$`, iSendARequestToTheGoal)
	ctx.Step(`^I send a "([^"]*)" request to the goal with body:$`, iSendARequestToTheGoalWithBody)
	ctx.Step(`^I request the goal's progress history$`, iRequestTheGoalsProgressHistory)
}

func theCurrentTimeIs(ctx context.Context, timestamp string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	instant, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse timestamp %q: %w", timestamp, err)
	}
	tc.clock.Set(instant.UTC())
	return SetTestContext(ctx, tc), nil
}

func aDriverIsAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	tc.driverID = uuid.New()

	token, err := signAccessToken(tc.cfg.JWT.Secret, tc.driverID, "driver@example.com")
	if err != nil {
		return ctx, fmt.Errorf("failed to sign access token: %w", err)
	}
	tc.accessToken = token

	return SetTestContext(ctx, tc), nil
}

func anotherDriverOwnsAVehicle(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	tc.foreignVehicleID = uuid.New()
	vehicle := &model.VehicleModel{
		ID:      tc.foreignVehicleID,
		OwnerID: uuid.New(),
		Brand:   "Chevrolet",
		Model:   "Onix",
		Year:    2022,
		Plate:   "XYZ9E87",
	}
	if err := tc.db.DbConn.Create(vehicle).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed vehicle: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

func theDriverLoggedAJourney(ctx context.Context, date string, earnings, distance int) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse date %q: %w", date, err)
	}

	journey := &model.JourneyModel{
		ID:            uuid.New(),
		OwnerID:       tc.driverID,
		VehicleID:     uuid.New(),
		Date:          day.UTC(),
		GrossEarnings: int64(earnings),
		TotalDistance: int64(distance),
	}
	if err := tc.db.DbConn.Create(journey).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed journey: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

func theDriverHasAnActiveGoal(ctx context.Context, goalType string, target int, start, end string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	startDate, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse start date %q: %w", start, err)
	}
	endDate, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse end date %q: %w", end, err)
	}

	goal := entity.NewGoal(
		tc.driverID,
		nil,
		"Seeded goal",
		"",
		entity.GoalType(goalType),
		entity.GoalPeriodMonthly,
		int64(target),
		startDate.UTC(),
		endDate.UTC(),
	)
	if err := tc.goalRepo.Create(ctx, goal); err != nil {
		return ctx, fmt.Errorf("failed to seed goal: %w", err)
	}
	tc.goalID = goal.ID

	return SetTestContext(ctx, tc), nil
}

func iCreateAGoalScopedToTheOtherDriversVehicle(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	body := &godog.DocString{Content: fmt.Sprintf(`{
		"vehicle_id": "%s",
		"title": "Vehicle revenue",
		"type": "revenue",
		"period": "monthly",
		"target_value": 100000,
		"start_date": "2025-03-01T00:00:00Z",
		"end_date": "2025-03-31T23:59:59Z"
	}`, tc.foreignVehicleID)}

	return iSendARequestToWithBody(ctx, "POST", "/api/v1/goals", body)
}

func iSendARequestToTheGoal(ctx context.Context, method string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return iSendARequestTo(ctx, method, "/api/v1/goals/"+tc.goalID.String())
}

func iSendARequestToTheGoalWithBody(ctx context.Context, method string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return iSendARequestToWithBody(ctx, method, "/api/v1/goals/"+tc.goalID.String(), body)
}

func iRequestTheGoalsProgressHistory(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return iSendARequestTo(ctx, "GET", "/api/v1/goals/"+tc.goalID.String()+"/progress")
}

// signAccessToken issues a short-lived access token the way the auth service
// does, so the middleware accepts it.
func signAccessToken(secret string, userID uuid.UUID, email string) (string, error) {
	claims := adapters.CustomClaims{
		UserID:    userID.String(),
		Email:     email,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
